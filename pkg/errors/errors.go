// Package errors provides structured error handling for statekit.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid store or middleware configuration.
	KindConfig
	// KindHydrate indicates a failure restoring persisted state into a store.
	KindHydrate
	// KindPersist indicates a persistence backend read or write failure.
	KindPersist
	// KindCodec indicates an encoding or decoding failure.
	KindCodec
	// KindWatch indicates a failure in the persisted-file watcher.
	KindWatch
	// KindUpdate indicates an invalid state update, such as a setter
	// receiving a value of the wrong type.
	KindUpdate
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindHydrate:
		return "hydrate"
	case KindPersist:
		return "persist"
	case KindCodec:
		return "codec"
	case KindWatch:
		return "watch"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// StateError represents a structured error in statekit.
type StateError struct {
	// Op is the operation that failed (e.g., "persist.Attach").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Store is the name of the store involved, if applicable.
	Store string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *StateError) Error() string {
	if e.Store != "" {
		return fmt.Sprintf("%s [%s] store=%s: %v", e.Op, e.Kind, e.Store, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// E constructs a StateError with the current time.
func E(op string, kind ErrorKind, storeName string, err error) *StateError {
	return &StateError{
		Op:        op,
		Kind:      kind,
		Err:       err,
		Store:     storeName,
		Timestamp: time.Now(),
	}
}

// ErrorHandler receives reported errors.
type ErrorHandler interface {
	HandleError(err *StateError)
}
