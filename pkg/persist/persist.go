package persist

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/store"
)

// Config controls the persistence middleware.
type Config struct {
	// Enabled turns the middleware on. A disabled middleware attaches as
	// a no-op, so callers can wire configuration unconditionally.
	Enabled bool
	// Name overrides the snapshot key. Defaults to the store name.
	Name string
	// Backend stores encoded snapshots. Defaults to a FileBackend under
	// the user cache directory.
	Backend Backend
	// Codec encodes snapshots. Defaults to JSON.
	Codec Codec
	// Watch reloads the store when the snapshot file changes externally.
	// Requires a PathBackend.
	Watch bool
}

// Middleware persists store snapshots. Create it with New and pass it to
// store.New via store.WithMiddleware.
type Middleware[S any] struct {
	cfg     Config
	watcher *watcher

	mu        sync.Mutex
	lastSaved []byte
}

// New creates persistence middleware from cfg.
func New[S any](cfg Config) *Middleware[S] {
	return &Middleware[S]{cfg: cfg}
}

func (m *Middleware[S]) Name() string       { return "persist" }
func (m *Middleware[S]) Stage() store.Stage { return store.StagePersist }

// Attach restores a saved snapshot into the store, then wraps the update
// pipeline to save after every commit.
func (m *Middleware[S]) Attach(st *store.Store[S]) error {
	if !m.cfg.Enabled {
		return nil
	}

	codec := m.cfg.Codec
	if codec == nil {
		codec = JSON{}
	}
	backend := m.cfg.Backend
	if backend == nil {
		dir, err := os.UserCacheDir()
		if err != nil {
			return errors.E("persist.Attach", errors.KindConfig, st.Name(), err)
		}
		backend = NewFileBackend(filepath.Join(dir, "statekit"))
	}
	name := m.cfg.Name
	if name == "" {
		name = st.Name()
	}
	key := name + codec.Ext()

	data, ok, err := backend.Load(key)
	if err != nil {
		return errors.E("persist.Attach", errors.KindPersist, st.Name(), err)
	}
	if ok {
		var snapshot S
		if err := codec.Decode(data, &snapshot); err != nil {
			return errors.E("persist.Attach", errors.KindCodec, st.Name(), err)
		}
		m.setLastSaved(data)
		st.Hydrate(snapshot)
	}

	st.Intercept(func(next store.SetFunc[S]) store.SetFunc[S] {
		return func(label string, old S, update func(S) S) S {
			nextState := next(label, old, update)
			m.save(st.Name(), key, codec, backend, nextState)
			return nextState
		}
	})

	if m.cfg.Watch {
		pb, isPath := backend.(PathBackend)
		if !isPath {
			return errors.E("persist.Attach", errors.KindConfig, st.Name(),
				errWatchNeedsPath)
		}
		if err := m.startWatch(st, pb, key, codec); err != nil {
			return err
		}
	}

	return nil
}

// save never fails the update; backend and codec failures are reported.
func (m *Middleware[S]) save(storeName, key string, codec Codec, backend Backend, snapshot S) {
	data, err := codec.Encode(snapshot)
	if err != nil {
		errors.Report(errors.E("persist.save", errors.KindCodec, storeName, err))
		return
	}
	m.setLastSaved(data)
	if err := backend.Save(key, data); err != nil {
		errors.Report(errors.E("persist.save", errors.KindPersist, storeName, err))
	}
}

func (m *Middleware[S]) setLastSaved(data []byte) {
	m.mu.Lock()
	m.lastSaved = data
	m.mu.Unlock()
}

// Close stops the file watcher, if one is running.
func (m *Middleware[S]) Close() error {
	if m.watcher != nil {
		return m.watcher.close()
	}
	return nil
}
