package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-drift/statekit/cmd/statekit/internal/gen"
)

func init() {
	RegisterCommand(&Command{
		Name:  "gen",
		Short: "Generate field declarations and typed accessors",
		Long: `Generate statekit field declarations and typed accessors for a
state struct.

Reads the given Go source file, finds the named struct type, and writes
a sibling file containing:
  - <Type>Fields()     the field set to pass to store.New
  - <Type>Store        a wrapper with typed Get/Set/Use/UseTracked methods

Accessor keys default to the lowerCamel form of the field name. A
` + "`statekit:\"key\"`" + ` struct tag overrides the key; ` + "`statekit:\"-\"`" + `
skips the field entirely.

Flags:
  -src FILE      Go source file containing the struct (required)
  -type NAME     struct type to generate accessors for (required)
  -out FILE      output path (default: <src>_statekit.go)
  -module PATH   module path for the generated header (default: from go.mod)

A statekit.yaml next to (or above) the source file can set defaults for
the suffix and module path.

Examples:
  statekit gen -src app/state.go -type Settings
  statekit gen -src app/state.go -type Settings -out app/gen.go`,
		Usage: "statekit gen -src FILE -type NAME [-out FILE] [-module PATH]",
		Run:   runGen,
	})
}

func runGen(args []string) error {
	var opts gen.Options

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unexpected argument %q\n\nUsage: %s", arg,
				commands["gen"].Usage)
		}
		name, value, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !inline {
			if i+1 >= len(args) {
				return fmt.Errorf("-%s requires a value\n\nUsage: %s", name,
					commands["gen"].Usage)
			}
			i++
			value = args[i]
		}
		switch name {
		case "src":
			opts.Src = value
		case "type":
			opts.Type = value
		case "out":
			opts.Out = value
		case "module":
			opts.Module = value
		default:
			return fmt.Errorf("unknown flag -%s\n\nUsage: %s", name,
				commands["gen"].Usage)
		}
	}

	if opts.Src == "" || opts.Type == "" {
		return fmt.Errorf("-src and -type are required\n\nUsage: %s",
			commands["gen"].Usage)
	}

	cfg, err := gen.LoadConfig(filepath.Dir(opts.Src))
	if err != nil {
		return err
	}
	opts = cfg.Apply(opts)

	out, err := gen.Generate(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %s\n", out)
	return nil
}
