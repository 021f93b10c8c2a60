package persist

import "sync"

// Backend stores encoded snapshots by key.
type Backend interface {
	// Load returns the snapshot for key. ok is false when no snapshot
	// exists; that is not an error.
	Load(key string) (data []byte, ok bool, err error)
	// Save writes the snapshot for key, replacing any previous one.
	Save(key string, data []byte) error
}

// PathBackend is implemented by backends whose snapshots live at a
// watchable filesystem path.
type PathBackend interface {
	Backend
	// Path returns the filesystem location of the snapshot for key.
	Path(key string) string
}

// MemoryBackend is an in-memory Backend for tests.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *MemoryBackend) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.items[key] = stored
	return nil
}

// Seed stores a snapshot directly, for arranging test fixtures.
func (m *MemoryBackend) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = data
}
