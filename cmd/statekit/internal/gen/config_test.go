package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FindsNearestFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "internal", "state")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile),
		[]byte("gen:\n  suffix: _gen.go\n  module: example.com/app\n"), 0o644))

	cfg, err := LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, "_gen.go", cfg.Gen.Suffix)
	assert.Equal(t, "example.com/app", cfg.Gen.Module)
}

func TestLoadConfig_MissingIsZero(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Gen.Suffix)
	assert.Empty(t, cfg.Gen.Module)
}

func TestLoadConfig_MalformedFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile),
		[]byte("gen: [not a mapping"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfig_ApplyKeepsExplicitFlags(t *testing.T) {
	var cfg Config
	cfg.Gen.Suffix = "_gen.go"
	cfg.Gen.Module = "example.com/app"

	opts := cfg.Apply(Options{Suffix: "_keep.go"})
	assert.Equal(t, "_keep.go", opts.Suffix, "flag beats config")
	assert.Equal(t, "example.com/app", opts.Module, "config fills the gap")
}
