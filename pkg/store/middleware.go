package store

// Stage determines the fixed attach order of middleware. Lower stages
// attach first and therefore sit innermost in the update pipeline.
type Stage int

const (
	// StageDevtools middleware observes commits closest to the store.
	StageDevtools Stage = iota
	// StagePersist middleware wraps around devtools, so values restored
	// or written by persistence are visible to instrumentation.
	StagePersist
)

// Middleware hooks into a store during construction.
//
// Attach runs synchronously inside New, in Stage order regardless of the
// order options were passed. It may hydrate state and wrap the update
// pipeline via Store.Intercept. Pipeline wrappers must not call Set or
// Subscribe on the store they are attached to.
type Middleware[S any] interface {
	// Name identifies the middleware in diagnostics.
	Name() string
	// Stage returns the middleware's position in the pipeline.
	Stage() Stage
	// Attach wires the middleware to the store. Errors abort New and
	// propagate to the caller unmodified.
	Attach(*Store[S]) error
}
