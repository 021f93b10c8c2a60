package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/store"
)

var errWatchNeedsPath = fmt.Errorf("watch requires a path-based backend")

type watcher struct {
	fs *fsnotify.Watcher
}

func (w *watcher) close() error {
	return w.fs.Close()
}

// startWatch reloads the store whenever the snapshot file is replaced by
// another writer. The watch is on the directory: atomic saves rename a
// temp file over the snapshot, which a file-level watch would lose.
func (m *Middleware[S]) startWatch(st *store.Store[S], backend PathBackend, key string, codec Codec) error {
	path := backend.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.E("persist.watch", errors.KindWatch, st.Name(), err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.E("persist.watch", errors.KindWatch, st.Name(), err)
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return errors.E("persist.watch", errors.KindWatch, st.Name(), err)
	}
	m.watcher = &watcher{fs: fs}

	go func() {
		for {
			select {
			case event, ok := <-fs.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				m.reload(st, backend, key, codec)
			case err, ok := <-fs.Errors:
				if !ok {
					return
				}
				errors.Report(errors.E("persist.watch", errors.KindWatch, st.Name(), err))
			}
		}
	}()

	return nil
}

func (m *Middleware[S]) reload(st *store.Store[S], backend PathBackend, key string, codec Codec) {
	data, ok, err := backend.Load(key)
	if err != nil {
		errors.Report(errors.E("persist.reload", errors.KindPersist, st.Name(), err))
		return
	}
	if !ok {
		return
	}

	// Our own saves also land as rename events; skip them.
	m.mu.Lock()
	echoed := bytes.Equal(data, m.lastSaved)
	m.mu.Unlock()
	if echoed {
		return
	}

	var snapshot S
	if err := codec.Decode(data, &snapshot); err != nil {
		errors.Report(errors.E("persist.reload", errors.KindCodec, st.Name(), err))
		return
	}
	m.setLastSaved(data)
	st.Hydrate(snapshot)
}
