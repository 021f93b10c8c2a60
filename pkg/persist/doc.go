// Package persist provides persistence middleware for statekit stores.
//
// The middleware restores a saved snapshot into the store at construction
// time and writes a new snapshot after every committed update. Snapshots
// are encoded by a pluggable Codec (JSON by default, YAML, optionally
// gzip-wrapped) and stored through a pluggable Backend (atomic file
// writes, SQLite, or in-memory for tests).
//
//	api, err := store.New("settings", defaults, fields,
//	    store.WithMiddleware[Settings](persist.New[Settings](persist.Config{
//	        Enabled: true,
//	        Backend: persist.NewFileBackend(dir),
//	    })))
//
// Save failures never fail the update; they are reported through the
// errors package. Construction failures (unreadable backend, corrupt
// snapshot) abort store construction and propagate to the caller.
//
// With Watch enabled on a file-backed store, external modifications to the
// snapshot file are decoded and hydrated back into the store, so separate
// processes can share persisted state.
package persist
