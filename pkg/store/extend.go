package store

// ExtendContext carries the surfaces an extension builder derives from.
// Get and Set include all prior extensions, so chained builders compose.
// Both maps are snapshots; writing to them does not alter the API.
type ExtendContext[S any] struct {
	// State reads the current snapshot.
	State func() S
	// Get is the current getter surface.
	Get map[string]func() any
	// Set is the current setter surface.
	Set map[string]func(any)
	// API is the composite API the extension layers on.
	API *API[S]
}

// SelectorBuilder returns derived zero-argument selectors keyed by name.
type SelectorBuilder[S any] func(ctx ExtendContext[S]) map[string]func() any

// ActionBuilder returns derived one-argument actions keyed by name.
type ActionBuilder[S any] func(ctx ExtendContext[S]) map[string]func(any)

func (a *API[S]) extendContext() ExtendContext[S] {
	return ExtendContext[S]{
		State: a.store.State,
		Get:   cloneSelectors(a.Get),
		Set:   cloneActions(a.Set),
		API:   a,
	}
}

// ExtendSelectors registers derived selectors and returns a new API over
// the same store. The new selectors appear in Get and, as watchable hooks,
// in Use. Re-registering a name replaces the earlier accessor; the original
// API is left untouched.
func (a *API[S]) ExtendSelectors(build SelectorBuilder[S]) *API[S] {
	added := build(a.extendContext())
	selectors := make(map[string]func() any, len(a.selectors)+len(added))
	for name, fn := range a.selectors {
		selectors[name] = fn
	}
	for name, fn := range added {
		selectors[name] = fn
	}
	return newAPI(a.store, a.fields, selectors, cloneActions(a.actions))
}

// ExtendActions registers derived actions and returns a new API over the
// same store. The new actions appear in Set. Re-registering a name replaces
// the earlier accessor; the original API is left untouched.
func (a *API[S]) ExtendActions(build ActionBuilder[S]) *API[S] {
	added := build(a.extendContext())
	actions := make(map[string]func(any), len(a.actions)+len(added))
	for name, fn := range a.actions {
		actions[name] = fn
	}
	for name, fn := range added {
		actions[name] = fn
	}
	return newAPI(a.store, a.fields, cloneSelectors(a.selectors), actions)
}

func cloneSelectors(m map[string]func() any) map[string]func() any {
	if m == nil {
		return nil
	}
	out := make(map[string]func() any, len(m))
	for name, fn := range m {
		out[name] = fn
	}
	return out
}

func cloneActions(m map[string]func(any)) map[string]func(any) {
	if m == nil {
		return nil
	}
	out := make(map[string]func(any), len(m))
	for name, fn := range m {
		out[name] = fn
	}
	return out
}
