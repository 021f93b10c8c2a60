package store

import "sync"

// Listener receives the previous and next snapshot after a committed update.
type Listener[S any] func(old, next S)

// SetFunc applies a labeled update to a snapshot and returns the next
// snapshot. Middleware wraps the store's pipeline with functions of this
// shape to observe or react to commits.
type SetFunc[S any] func(label string, old S, update func(S) S) S

type queuedUpdate[S any] struct {
	label  string
	update func(S) S
	// hydrate skips the pipeline: restored snapshots are not re-persisted.
	hydrate bool
}

// Store is the reactive engine underneath an API. It holds the current
// snapshot, serializes updates, and notifies subscribers after each commit.
//
// Updates issued from inside a listener callback are queued and applied
// after the current notification pass completes, in call order.
type Store[S any] struct {
	name    string
	mu      sync.Mutex
	state   S
	initial S

	pipeline SetFunc[S]

	listeners      map[int]Listener[S]
	nextListenerID int

	notifying bool
	queue     []queuedUpdate[S]
}

func newStore[S any](name string, initial S) *Store[S] {
	s := &Store[S]{
		name:      name,
		state:     initial,
		initial:   initial,
		listeners: make(map[int]Listener[S]),
	}
	s.pipeline = func(label string, old S, update func(S) S) S {
		return update(old)
	}
	return s
}

// Name returns the store's namespacing label.
func (s *Store[S]) Name() string {
	return s.name
}

// State returns the current snapshot.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InitialState returns the value the store was constructed with,
// before any hydration or update.
func (s *Store[S]) InitialState() S {
	return s.initial
}

// Subscribe registers a listener for committed updates.
// Returns an unsubscribe function.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Set applies a labeled update through the middleware pipeline and notifies
// subscribers with the previous and next snapshot. The label is a diagnostic
// tag; generated setters use the field name.
//
// Re-entrant Set calls made while listeners are running are queued and
// applied after the current pass. The update function and middleware must
// not call back into the store.
func (s *Store[S]) Set(label string, update func(S) S) {
	s.apply(queuedUpdate[S]{label: label, update: update})
}

// Hydrate replaces the snapshot without running the update pipeline and
// notifies subscribers. Persistence middleware uses it to restore saved
// state at attach time and on external reloads; hydration is deliberately
// not re-persisted. Like Set, a hydration arriving while a notification
// pass is running is queued behind it, so only one pass runs at a time
// even when hydration comes from a watcher goroutine.
func (s *Store[S]) Hydrate(next S) {
	s.apply(queuedUpdate[S]{update: func(S) S { return next }, hydrate: true})
}

// apply runs an update through the notification discipline. The caller that
// turns on notifying drains the queue; everyone else enqueues and returns.
func (s *Store[S]) apply(u queuedUpdate[S]) {
	s.mu.Lock()
	if s.notifying {
		s.queue = append(s.queue, u)
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()

	s.commit(u)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		s.commit(next)
	}
}

func (s *Store[S]) commit(u queuedUpdate[S]) {
	s.mu.Lock()
	old := s.state
	var next S
	if u.hydrate {
		next = u.update(old)
	} else {
		next = s.pipeline(u.label, old, u.update)
	}
	s.state = next
	snapshot := s.listenerSnapshot()
	s.mu.Unlock()

	for _, fn := range snapshot {
		fn(old, next)
	}
}

// Intercept wraps the update pipeline. The wrapper installed last sits
// outermost. Only middleware should call this, and only from Attach.
func (s *Store[S]) Intercept(wrap func(next SetFunc[S]) SetFunc[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = wrap(s.pipeline)
}

// listenerSnapshot must be called with the mutex held.
func (s *Store[S]) listenerSnapshot() []Listener[S] {
	snapshot := make([]Listener[S], 0, len(s.listeners))
	for _, fn := range s.listeners {
		snapshot = append(snapshot, fn)
	}
	return snapshot
}

// ListenerCount returns the number of active subscriptions.
func (s *Store[S]) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
