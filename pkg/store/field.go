package store

import "fmt"

// FieldDef describes one named field of a state shape S. The field set is
// declared at store construction and fixed for the life of the store;
// accessors derived from it never gain or lose keys.
type FieldDef[S any] struct {
	// Name is the accessor key for the field.
	Name string
	// Get projects the field value from a snapshot.
	Get func(S) any
	// Set returns a new snapshot with the field replaced. It fails when
	// the supplied value has the wrong dynamic type.
	Set func(S, any) (S, error)
}

// Field declares a typed field lens for use with New.
//
//	store.Field("stars",
//	    func(s Repo) int { return s.Stars },
//	    func(s Repo, v int) Repo { s.Stars = v; return s })
func Field[S, T any](name string, get func(S) T, set func(S, T) S) FieldDef[S] {
	return FieldDef[S]{
		Name: name,
		Get: func(s S) any {
			return get(s)
		},
		Set: func(s S, value any) (S, error) {
			v, ok := value.(T)
			if !ok {
				var want T
				return s, fmt.Errorf("field %q: cannot assign %T, want %T", name, value, want)
			}
			return set(s, v), nil
		},
	}
}
