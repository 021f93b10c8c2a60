package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGen_RequiresSrcAndType(t *testing.T) {
	err := runGen(nil)
	assert.ErrorContains(t, err, "-src and -type are required")

	err = runGen([]string{"-src", "state.go"})
	assert.ErrorContains(t, err, "-src and -type are required")
}

func TestRunGen_UnknownFlag(t *testing.T) {
	err := runGen([]string{"-bogus", "x"})
	assert.ErrorContains(t, err, "unknown flag -bogus")
}

func TestRunGen_PositionalArgument(t *testing.T) {
	err := runGen([]string{"state.go"})
	assert.ErrorContains(t, err, `unexpected argument "state.go"`)
}

func TestRunGen_MissingValue(t *testing.T) {
	err := runGen([]string{"-src"})
	assert.ErrorContains(t, err, "-src requires a value")
}

func TestRunGen_GeneratesOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "state.go")
	require.NoError(t, os.WriteFile(src, []byte(`package app

type Counter struct {
	Count int
}
`), 0o644))

	require.NoError(t, runGen([]string{"-src", src, "-type", "Counter"}))

	data, err := os.ReadFile(filepath.Join(dir, "state_statekit.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func CounterFields() []store.FieldDef[Counter]")
}

func TestRunGen_InlineFlagForm(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "state.go")
	require.NoError(t, os.WriteFile(src, []byte(`package app

type Counter struct {
	Count int
}
`), 0o644))

	out := filepath.Join(dir, "custom.go")
	require.NoError(t, runGen([]string{"-src=" + src, "-type=Counter", "-out=" + out}))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}
