package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/handlergrid/internal/cli"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/hcl"
)

type panickingLoader struct{}

func (panickingLoader) Load(context.Context, ...string) (*datastore.Store, error) {
	panic("plugin 'numeric' already registered in category 'filter'")
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"validate", "-m", t.TempDir()}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, out, args, panickingLoader{})

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "already registered")
}

func TestRun_ManifestError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL string with a syntax error fails the loading phase inside app.NewApp().
	invalidHCL := `
		table "users" {
			field "uid" {
		// Missing closing braces here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	args := []string{"resolve", "filter", "users.uid", "-m", filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, out, args, hcl.NewLoader())

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "failed to load manifests")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag prints usage and exits cleanly.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, out, args, hcl.NewLoader())

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, out, args, hcl.NewLoader())

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
