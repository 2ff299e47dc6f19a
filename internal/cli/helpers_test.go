package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gridset/internal/ledger"
)

// writeTestCSV writes content to name inside a fresh temp directory.
func writeTestCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearGridsetEnv unsets GRIDSET_* variables and restores the default
// logger once the test ends.
func clearGridsetEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GRIDSET_LOG_LEVEL", "GRIDSET_LOG_FORMAT", "GRIDSET_LEDGER", "GRIDSET_SEED", "GRIDSET_FACE_PREFIX"} {
		t.Setenv(name, "")
	}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// readLedger returns every run recorded in the ledger at path.
func readLedger(t *testing.T, path string) []ledger.Run {
	t.Helper()
	l, err := ledger.Open(path)
	require.NoError(t, err)
	defer l.Close()

	runs, err := l.Runs(context.Background())
	require.NoError(t, err)
	return runs
}
