package store

import (
	"fmt"
	"sort"

	"github.com/go-drift/statekit/pkg/errors"
)

// API is the composite accessor surface over one store. The four accessor
// maps always share the declared field-name key set; extensions layer
// additional names on top of Get, Use, and Set.
//
// An API is immutable in shape once built. ExtendSelectors and
// ExtendActions return a new API over the same store.
type API[S any] struct {
	store  *Store[S]
	fields []FieldDef[S]

	// Get holds per-field getters plus extended selectors.
	Get map[string]func() any
	// Set holds per-field setters plus extended actions.
	Set map[string]func(any)
	// Use holds per-field hook accessors plus hooks for extended selectors.
	Use map[string]Hook
	// UseTracked holds per-field tracked hook accessors.
	UseTracked map[string]TrackedHook

	selectors map[string]func() any
	actions   map[string]func(any)
}

// Option configures the store builder.
type Option[S any] func(*builder[S])

type builder[S any] struct {
	middleware []Middleware[S]
}

// WithMiddleware attaches middleware to the store under construction.
// Attach order is fixed by Stage, not by argument order.
func WithMiddleware[S any](mw ...Middleware[S]) Option[S] {
	return func(b *builder[S]) {
		b.middleware = append(b.middleware, mw...)
	}
}

// New builds a store named name with the given initial snapshot and field
// declarations, attaches any configured middleware, and derives the
// composite accessor surface.
//
// Middleware errors propagate unmodified; there is no retry or recovery.
func New[S any](name string, initial S, fields []FieldDef[S], opts ...Option[S]) (*API[S], error) {
	if name == "" {
		return nil, errors.E("store.New", errors.KindConfig, "", fmt.Errorf("store name is required"))
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.E("store.New", errors.KindConfig, name, fmt.Errorf("field with empty name"))
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errors.E("store.New", errors.KindConfig, name, fmt.Errorf("duplicate field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
	}

	b := &builder[S]{}
	for _, opt := range opts {
		opt(b)
	}

	st := newStore(name, initial)

	middleware := append([]Middleware[S](nil), b.middleware...)
	sort.SliceStable(middleware, func(i, j int) bool {
		return middleware[i].Stage() < middleware[j].Stage()
	})
	for _, mw := range middleware {
		if err := mw.Attach(st); err != nil {
			return nil, err
		}
	}

	return newAPI(st, fields, nil, nil), nil
}

func newAPI[S any](st *Store[S], fields []FieldDef[S], selectors map[string]func() any, actions map[string]func(any)) *API[S] {
	a := &API[S]{
		store:      st,
		fields:     fields,
		Get:        make(map[string]func() any, len(fields)+len(selectors)),
		Set:        make(map[string]func(any), len(fields)+len(actions)),
		Use:        make(map[string]Hook, len(fields)+len(selectors)),
		UseTracked: make(map[string]TrackedHook, len(fields)),
		selectors:  selectors,
		actions:    actions,
	}

	for _, f := range fields {
		f := f
		a.Get[f.Name] = func() any { return f.Get(st.State()) }
		a.Set[f.Name] = fieldSetter(st, f)
		a.Use[f.Name] = fieldHook(st, f)
		a.UseTracked[f.Name] = trackedHook(st, f.Get)
	}

	// Extensions shadow field accessors of the same name. Later
	// registration wins; this is intentional, not an error.
	for name, fn := range selectors {
		a.Get[name] = fn
		a.Use[name] = selectorHook(st, fn)
	}
	for name, fn := range actions {
		a.Set[name] = fn
	}

	return a
}

func fieldSetter[S any](st *Store[S], f FieldDef[S]) func(any) {
	return func(value any) {
		if _, err := f.Set(st.State(), value); err != nil {
			errors.Report(errors.E("store.set", errors.KindUpdate, st.Name(), err))
			return
		}
		st.Set(f.Name, func(s S) S {
			next, err := f.Set(s, value)
			if err != nil {
				return s
			}
			return next
		})
	}
}

// Store returns the raw store handle.
func (a *API[S]) Store() *Store[S] {
	return a.store
}

// State returns the current snapshot.
func (a *API[S]) State() S {
	return a.store.State()
}

// InitialState returns the snapshot the store was constructed with.
func (a *API[S]) InitialState() S {
	return a.store.InitialState()
}

// SetState applies a whole-state update, labeled "state".
func (a *API[S]) SetState(update func(S) S) {
	a.store.Set("state", update)
}

// UseStore subscribes a rendering context to a derived selection of the
// whole state. The returned read function reflects the latest snapshot.
func (a *API[S]) UseStore(r Rebuilder, selector func(S) any, opts ...HookOption) func() any {
	read := func() any { return selector(a.store.State()) }
	return selectorHook(a.store, read)(r, opts...)
}

// UseTrackedStore returns a tracked view over the whole state.
func (a *API[S]) UseTrackedStore(r Rebuilder) *Tracked {
	return trackedHook(a.store, func(s S) any { return s })(r)
}

// FieldNames returns the declared field names in sorted order.
func (a *API[S]) FieldNames() []string {
	names := make([]string, 0, len(a.fields))
	for _, f := range a.fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}
