package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/export"
	"github.com/five82/fkconsole/internal/kv"
	"github.com/five82/fkconsole/internal/state"
)

func writeConfig(t *testing.T) (configPath, storeDir string) {
	t.Helper()
	dir := t.TempDir()
	storeDir = filepath.Join(dir, "data")
	configPath = filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf("store_path = %q\n", storeDir)), 0o600))
	return configPath, storeDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpAndClear(t *testing.T) {
	configPath, storeDir := writeConfig(t)
	backend, err := kv.NewFileStore(storeDir)
	require.NoError(t, err)
	s := state.NewStore(backend, nil)
	s.Append(entry.New("origin ", entry.Warning, "careful"))
	require.NoError(t, s.Persist())

	out, err := execute(t, "--config", configPath, "dump", "--format", "plain")
	require.NoError(t, err)
	assert.Equal(t, "origin careful\n", out)

	out, err = execute(t, "--config", configPath, "clear")
	require.NoError(t, err)
	assert.Equal(t, "history cleared\n", out)

	out, err = execute(t, "--config", configPath, "dump", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestDump_RejectsUnknownFormat(t *testing.T) {
	configPath, _ := writeConfig(t)
	_, err := execute(t, "--config", configPath, "dump", "--format", "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestDump_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("store = \"redis\"\n"), 0o600))
	_, err := execute(t, "--config", path, "dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
