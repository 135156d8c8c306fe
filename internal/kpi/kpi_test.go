package kpi

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"aquadash.wasreb.org/internal/dataset"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	m, err := dataset.LoadManager(context.Background(),
		filepath.Join("..", "..", "testdata"),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewEngine(m)
}

// engineWithOverrides loads the shared fixtures with some files replaced.
func engineWithOverrides(t *testing.T, overrides map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join("..", "..", "testdata")
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644))
	}
	for name, content := range overrides {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	m, err := dataset.LoadManager(context.Background(), dir,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewEngine(m)
}

func uganda2022() Filter {
	return Filter{Countries: []string{"Uganda"}, StartYear: 2022, EndYear: 2022}
}
