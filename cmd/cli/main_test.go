package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/crossdeploy/internal/testutil"
)

func TestRun_Synthesizes(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": testutil.PipelineHCL})
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, logs, []string{dir})

	// --- Assert ---
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), "stdout must hold only the document")
	assert.Len(t, doc["stages"], 2)
	assert.Contains(t, logs.String(), "Pipeline synthesized.")
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL file with a syntax error fails during loading.
	invalidHCL := `
		pipeline "p" {
			repository = "r"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	// --- Act ---
	runErr := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "failed to load configuration")
	assert.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, out.String(), "USAGE", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
