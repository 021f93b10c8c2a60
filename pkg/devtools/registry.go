package devtools

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxHistory bounds the per-store action ring.
const maxHistory = 64

// Action is one recorded store update.
type Action struct {
	// ID uniquely identifies the action.
	ID string
	// Seq is the 1-based position of the action within its store.
	Seq uint64
	// Label is the diagnostic tag of the update (field name, "state",
	// or an extension action name).
	Label string
	// Time is when the action committed.
	Time time.Time
}

// Entry describes one registered store.
type Entry struct {
	// ID uniquely identifies this registration.
	ID string
	// Name is the registry label.
	Name string
	// RegisteredAt is when the store attached.
	RegisteredAt time.Time

	snapshot func() any

	mu      sync.Mutex
	seq     uint64
	history []Action
}

// Snapshot returns the store's current state.
func (e *Entry) Snapshot() any {
	return e.snapshot()
}

// ActionCount returns how many actions the store has committed.
func (e *Entry) ActionCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// History returns the most recent actions, oldest first.
func (e *Entry) History() []Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Action, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Entry) recordAction(label string) Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	action := Action{
		ID:    uuid.NewString(),
		Seq:   e.seq,
		Label: label,
		Time:  time.Now(),
	}
	if len(e.history) == maxHistory {
		copy(e.history, e.history[1:])
		e.history[len(e.history)-1] = action
	} else {
		e.history = append(e.history, action)
	}
	return action
}

var registry = struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}{entries: make(map[string]*Entry)}

// register adds a store to the registry. Re-registering a name replaces
// the previous entry; a reconstructed store takes over its panel slot.
func register(name string, snapshot func() any) *Entry {
	entry := &Entry{
		ID:           uuid.NewString(),
		Name:         name,
		RegisteredAt: time.Now(),
		snapshot:     snapshot,
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.entries[name]; !exists {
		registry.order = append(registry.order, name)
	}
	registry.entries[name] = entry
	return entry
}

// Stores returns all registered entries in registration order.
func Stores() []*Entry {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	out := make([]*Entry, 0, len(registry.order))
	for _, name := range registry.order {
		out = append(out, registry.entries[name])
	}
	return out
}

// Lookup returns the entry registered under name.
func Lookup(name string) (*Entry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	entry, ok := registry.entries[name]
	return entry, ok
}

// resetRegistry clears the registry. Tests only.
func resetRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries = make(map[string]*Entry)
	registry.order = nil
}
