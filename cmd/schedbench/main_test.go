package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&buf))

	err := run(options{tasks: 1000, spawners: 3, workers: 2, fanout: 3}, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "storm finished")
	assert.Contains(t, out, `"tasks":4000`)
	assert.Contains(t, out, `"workers":2`)
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\nlog_level: warn\n"), 0o600))

	var buf bytes.Buffer
	err := run(options{configPath: path, tasks: 10, spawners: 1}, zerolog.New(zerolog.SyncWriter(&buf)))
	require.NoError(t, err)

	// warn level suppresses the info summary
	assert.NotContains(t, buf.String(), "storm finished")
}

func TestRun_InvalidOptions(t *testing.T) {
	logger := zerolog.Nop()

	assert.Error(t, run(options{tasks: 10, spawners: 0}, logger))
	assert.Error(t, run(options{tasks: -1, spawners: 1}, logger))
	assert.Error(t, run(options{configPath: filepath.Join(t.TempDir(), "none.yaml"), tasks: 1, spawners: 1}, logger))
}
