// Command statekit is the statekit command-line tool.
package main

import (
	"os"

	"github.com/go-drift/statekit/cmd/statekit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
