package errors

import (
	"fmt"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including the error kind and store name.
	Verbose bool
}

// HandleError logs a StateError to stderr.
func (h *LogHandler) HandleError(err *StateError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[statekit error] %s [%s]", err.Op, err.Kind)
		if err.Store != "" {
			fmt.Fprintf(os.Stderr, " store=%s", err.Store)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
	} else {
		fmt.Fprintf(os.Stderr, "[statekit error] %s: %v\n", err.Op, err.Err)
	}
}
