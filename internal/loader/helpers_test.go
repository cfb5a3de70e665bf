package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/metrics"
)

func writeFile(t *testing.T, dir, rel, data string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
}

type countingRecorder struct {
	metrics.NoopRecorder
	loaded   map[string]int
	failures map[string]int
}

func (c *countingRecorder) SetEntriesLoaded(collection string, n int) { c.loaded[collection] = n }

func (c *countingRecorder) IncValidationFailure(_ string, kind string) { c.failures[kind]++ }
