package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFileStore(filepath.Join(t.TempDir(), "defaults"))
	require.NoError(t, err)

	sql, err := OpenSQL(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sql.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sqlite": sql,
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("FKConsoleLog")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SetOverwritesAndDeletes(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("FKConsoleLog", []byte("one")))
			require.NoError(t, s.Set("FKConsoleLog", []byte("two")))

			got, err := s.Get("FKConsoleLog")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got))

			require.NoError(t, s.Delete("FKConsoleLog"))
			_, err = s.Get("FKConsoleLog")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing key is not an error.
			assert.NoError(t, s.Delete("FKConsoleLog"))
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Set("../escape", []byte("x")))
			assert.Error(t, s.Set("", []byte("x")))
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, s.Set("k", value))
	value[0] = 'z'

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set("FKConsoleLog", []byte("history")))

	b, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := b.Get("FKConsoleLog")
	require.NoError(t, err)
	assert.Equal(t, "history", string(got))
	assert.NoFileExists(t, filepath.Join(dir, "FKConsoleLog.kv.tmp"))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(" Memory ", dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open("sqlite", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "fkconsole.db"))

	_, err = Open("redis", dir)
	assert.Error(t, err)
}
