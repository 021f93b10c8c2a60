// Package devtools provides inspection middleware for statekit stores.
//
// When attached, a store registers itself in a process-wide registry and
// every labeled update is logged through zap, with an optional dump of the
// previous and next snapshot. The registry powers inspection panels: it
// exposes each store's name, live snapshot, and recent action history.
//
//	mw := devtools.New[Settings](devtools.Config{Enabled: true})
//	api, err := store.New("settings", defaults, fields,
//	    store.WithMiddleware[Settings](mw))
//
// Devtools attaches innermost, so persistence middleware layered on top is
// observed too: values restored from disk show up in registry snapshots.
package devtools

import (
	"go.uber.org/zap"

	"github.com/go-drift/statekit/pkg/store"
)

// Config controls the devtools middleware.
type Config struct {
	// Enabled turns the middleware on. A disabled middleware attaches as
	// a no-op, so callers can wire configuration unconditionally.
	Enabled bool
	// Name overrides the registry label. Defaults to the store name.
	Name string
	// Logger receives action logs. Defaults to zap's development logger.
	Logger *zap.Logger
	// LogValues includes the previous and next snapshot in each action log.
	LogValues bool
}

// Middleware registers a store for inspection and logs its actions.
type Middleware[S any] struct {
	cfg   Config
	entry *Entry
}

// New creates devtools middleware from cfg.
func New[S any](cfg Config) *Middleware[S] {
	return &Middleware[S]{cfg: cfg}
}

func (m *Middleware[S]) Name() string       { return "devtools" }
func (m *Middleware[S]) Stage() store.Stage { return store.StageDevtools }

// Entry returns the registry entry for the attached store, or nil when the
// middleware is disabled or not yet attached.
func (m *Middleware[S]) Entry() *Entry {
	return m.entry
}

// Attach registers the store and wraps the update pipeline with action
// logging.
func (m *Middleware[S]) Attach(st *store.Store[S]) error {
	if !m.cfg.Enabled {
		return nil
	}

	logger := m.cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	name := m.cfg.Name
	if name == "" {
		name = st.Name()
	}

	entry := register(name, func() any { return st.State() })
	m.entry = entry

	st.Intercept(func(next store.SetFunc[S]) store.SetFunc[S] {
		return func(label string, old S, update func(S) S) S {
			nextState := next(label, old, update)
			action := entry.recordAction(label)
			fields := []zap.Field{
				zap.String("store", name),
				zap.String("action", label),
				zap.Uint64("seq", action.Seq),
			}
			if m.cfg.LogValues {
				fields = append(fields,
					zap.Any("prev", old),
					zap.Any("next", nextState))
			}
			logger.Info("action", fields...)
			return nextState
		}
	})

	return nil
}
