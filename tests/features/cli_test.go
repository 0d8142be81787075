// Package features_test provides feature tests for GeoSearch CLI commands.
// These tests verify end-to-end command behavior.
package features_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// projectRoot walks up from the working directory to the directory holding
// main.go.
func projectRoot(t *testing.T) string {
	t.Helper()

	root, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, statErr := os.Stat(filepath.Join(root, "main.go")); statErr == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			require.Fail(t, "could not find project root")
		}
		root = parent
	}
}

func TestFeature_Version(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping feature test in short mode")
	}

	cmd := exec.Command("go", "run", "main.go", "version")
	cmd.Dir = projectRoot(t)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "version command failed: %s", output)
	require.Contains(t, string(output), "geosearch version")
}

func TestFeature_ArchivesListWithoutService(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping feature test in short mode")
	}

	// With no service running, the command tells the operator what to
	// start instead of failing cryptically. Port 1 is never listening.
	cmd := exec.Command("go", "run", "main.go",
		"archives", "list", "--server", "http://127.0.0.1:1")
	cmd.Dir = projectRoot(t)
	output, _ := cmd.CombinedOutput()

	require.Contains(t, string(output), "Ensure the httpd command is running")
}
