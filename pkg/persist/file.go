package persist

import (
	"os"
	"path/filepath"
)

// FileBackend stores each snapshot as a file under a directory.
// Saves go through a temp file and rename, so readers never observe a
// partially written snapshot.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir. The directory is created
// on first save.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileBackend) Save(key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Path returns the snapshot file location for key.
func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.dir, key)
}
