package store

import (
	"reflect"
	"strings"
	"sync"
)

// Tracked is a read-tracking view over an accessor value. Reads through Get
// record the accessed path, and the owning subscription only schedules a
// rebuild when a previously read path's value changes.
//
// Recorded paths reset each time a rebuild is triggered: the consumer
// re-reads whatever it still needs during the next build, so the set cannot
// grow stale. Over-recording is safe (extra rebuilds, never missed ones).
type Tracked struct {
	mu    sync.Mutex
	read  func() any
	paths map[string]struct{}
}

func newTracked(read func() any) *Tracked {
	return &Tracked{
		read:  read,
		paths: make(map[string]struct{}),
	}
}

// Value returns the whole tracked value and records a root dependency.
func (t *Tracked) Value() any {
	t.record("")
	return t.read()
}

// Get returns the value at path and records the path as a dependency.
// Path segments traverse string-keyed maps, exported struct fields, and
// pointers. A path that does not resolve returns nil.
func (t *Tracked) Get(path ...string) any {
	t.record(strings.Join(path, "."))
	return resolvePath(t.read(), path)
}

func (t *Tracked) record(path string) {
	t.mu.Lock()
	t.paths[path] = struct{}{}
	t.mu.Unlock()
}

// changed reports whether any recorded path resolves to a different value
// between the two snapshots. On change the recorded set is reset.
func (t *Tracked) changed(old, next any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path := range t.paths {
		var segments []string
		if path != "" {
			segments = strings.Split(path, ".")
		}
		if !reflect.DeepEqual(resolvePath(old, segments), resolvePath(next, segments)) {
			t.paths = make(map[string]struct{})
			return true
		}
	}
	return false
}

func trackedHook[S any](st *Store[S], project func(S) any) TrackedHook {
	return func(r Rebuilder) *Tracked {
		t := newTracked(func() any { return project(st.State()) })
		unsub := st.Subscribe(func(old, next S) {
			if t.changed(project(old), project(next)) {
				r.SetState(nil)
			}
		})
		r.OnDispose(unsub)
		return t
	}
}

// resolvePath walks v segment by segment. Pointers and interfaces are
// dereferenced at each step.
func resolvePath(v any, path []string) any {
	for _, segment := range path {
		if v == nil {
			return nil
		}
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil
			}
			key := reflect.ValueOf(segment).Convert(rv.Type().Key())
			entry := rv.MapIndex(key)
			if !entry.IsValid() {
				return nil
			}
			v = entry.Interface()
		case reflect.Struct:
			field := rv.FieldByName(segment)
			if !field.IsValid() || !field.CanInterface() {
				return nil
			}
			v = field.Interface()
		default:
			return nil
		}
	}
	return v
}
