// Package store provides a reactive state store with generated per-field
// accessor surfaces for drift-style component UIs.
//
// A store holds a single state value. Fields of the state are declared as
// typed lenses at construction time, and the builder derives four parallel
// accessor surfaces from the declared field set: getters, setters, hook
// accessors, and tracked hook accessors.
//
//	type Repo struct {
//	    Name  string
//	    Stars int
//	}
//
//	api, err := store.New("repo", Repo{Name: "drift"}, []store.FieldDef[Repo]{
//	    store.Field("name", func(s Repo) string { return s.Name },
//	        func(s Repo, v string) Repo { s.Name = v; return s }),
//	    store.Field("stars", func(s Repo) int { return s.Stars },
//	        func(s Repo, v int) Repo { s.Stars = v; return s }),
//	})
//
//	api.Set["stars"](5)
//	api.Get["stars"]() // 5
//
// # Hooks
//
// Hook accessors subscribe a rendering context to one field. Any type with
// SetState and OnDispose methods works as the context; drift's
// core.StateBase satisfies the Rebuilder interface directly. Call hooks
// once during InitState and use the returned read function in Build:
//
//	func (s *repoState) InitState() {
//	    s.stars = repoAPI.Use["stars"](s)
//	}
//
// Tracked hooks go one step finer: reads through a Tracked view record the
// accessed path, and the consumer only rebuilds when a path it actually
// read changes.
//
// # Extension
//
// ExtendSelectors and ExtendActions layer derived accessors on top of an
// API, returning a new API of the same shape so that extension chains
// indefinitely. Extensions are additive; re-registering a name replaces
// the earlier accessor.
//
// # Middleware
//
// Optional middleware (persistence, devtools) attaches during New in a
// fixed order: devtools observes commits innermost, persistence wraps
// around it so hydrated values are visible to instrumentation.
package store
