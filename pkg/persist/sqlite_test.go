package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/statekit/pkg/store"
)

func newSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestSQLiteBackend_SaveAndLoad(t *testing.T) {
	backend := newSQLite(t)

	require.NoError(t, backend.Save("repo.json", []byte(`{"stars":1}`)))

	data, ok, err := backend.Load("repo.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"stars":1}`, string(data))
}

func TestSQLiteBackend_LoadMissing(t *testing.T) {
	backend := newSQLite(t)

	_, ok, err := backend.Load("missing.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteBackend_SaveReplaces(t *testing.T) {
	backend := newSQLite(t)

	require.NoError(t, backend.Save("repo.json", []byte("first")))
	require.NoError(t, backend.Save("repo.json", []byte("second")))

	data, ok, err := backend.Load("repo.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", string(data))
}

func TestSQLiteBackend_UpdatedAt(t *testing.T) {
	backend := newSQLite(t)

	_, ok, err := backend.UpdatedAt("repo.json")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, backend.Save("repo.json", []byte("{}")))

	stamp, ok, err := backend.UpdatedAt("repo.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, stamp.IsZero())
}

func TestSQLiteBackend_HoldsManyStores(t *testing.T) {
	backend := newSQLite(t)

	type counter struct {
		N int `json:"n"`
	}
	fields := []store.FieldDef[counter]{
		store.Field("n",
			func(s counter) int { return s.N },
			func(s counter, v int) counter { s.N = v; return s }),
	}

	first, err := store.New("first", counter{}, fields,
		store.WithMiddleware[counter](New[counter](Config{Enabled: true, Backend: backend})))
	require.NoError(t, err)
	second, err := store.New("second", counter{}, fields,
		store.WithMiddleware[counter](New[counter](Config{Enabled: true, Backend: backend})))
	require.NoError(t, err)

	first.Set["n"](1)
	second.Set["n"](2)

	restored, err := store.New("first", counter{}, fields,
		store.WithMiddleware[counter](New[counter](Config{Enabled: true, Backend: backend})))
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Get["n"]())
}
