package store

import "reflect"

// Rebuilder is the surface a hook accessor needs from a rendering context.
// drift's *core.StateBase satisfies it; tests use lightweight fakes.
type Rebuilder interface {
	// SetState schedules a rebuild of the consuming component.
	SetState(fn func())
	// OnDispose registers cleanup to run when the component unmounts.
	// It returns an unregister function.
	OnDispose(cleanup func()) func()
}

// Equality reports whether two accessor values should be considered equal.
// Hooks skip the rebuild when the old and new values are equal.
type Equality func(prev, next any) bool

// Hook subscribes a rendering context to one accessor value. Call it once
// during InitState; the returned read function reflects the latest snapshot
// and is meant for use in Build. The subscription tears down through the
// context's own dispose lifecycle.
type Hook func(r Rebuilder, opts ...HookOption) func() any

// TrackedHook subscribes a rendering context to an accessor value through a
// read-tracking view. The consumer only rebuilds when a path it actually
// read through the view changes.
type TrackedHook func(r Rebuilder) *Tracked

type hookConfig struct {
	equal Equality
}

// HookOption configures a hook subscription.
type HookOption func(*hookConfig)

// WithEquality overrides the default change check for a hook subscription.
func WithEquality(eq Equality) HookOption {
	return func(cfg *hookConfig) {
		if eq != nil {
			cfg.equal = eq
		}
	}
}

func newHookConfig(opts []HookOption) hookConfig {
	cfg := hookConfig{equal: sameValue}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// sameValue is the default change check: comparable values of the same
// dynamic type compare with ==, anything else is treated as changed.
func sameValue(prev, next any) bool {
	if prev == nil && next == nil {
		return true
	}
	if prev == nil || next == nil {
		return false
	}
	tp := reflect.TypeOf(prev)
	if tp != reflect.TypeOf(next) || !tp.Comparable() {
		return false
	}
	return prev == next
}

func fieldHook[S any](st *Store[S], f FieldDef[S]) Hook {
	return func(r Rebuilder, opts ...HookOption) func() any {
		cfg := newHookConfig(opts)
		unsub := st.Subscribe(func(old, next S) {
			if !cfg.equal(f.Get(old), f.Get(next)) {
				r.SetState(nil)
			}
		})
		r.OnDispose(unsub)
		return func() any { return f.Get(st.State()) }
	}
}

// selectorHook watches a derived read function. Derived selectors cannot be
// projected from an arbitrary old snapshot, so the hook keeps the last seen
// value and compares against it on every commit.
func selectorHook[S any](st *Store[S], read func() any) Hook {
	return func(r Rebuilder, opts ...HookOption) func() any {
		cfg := newHookConfig(opts)
		last := read()
		unsub := st.Subscribe(func(S, S) {
			cur := read()
			changed := !cfg.equal(last, cur)
			last = cur
			if changed {
				r.SetState(nil)
			}
		})
		r.OnDispose(unsub)
		return read
	}
}
