package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "existing-file.txt")
	require.NoError(t, os.WriteFile(existing, nil, 0o600))

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"FileExists", existing, true},
		{"FileDoesNotExist", filepath.Join(tempDir, "non-existent-file.txt"), false},
		{"DirectoryExists", tempDir, true},
		{"EmptyString", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Exists(tt.path))
		})
	}
}

func TestMkdirAllAndList(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "a", "backup")
	require.NoError(t, MkdirAll(root, root))

	for _, n := range []string{"2_browser.db", "1_browser.db", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, n), nil, 0o600))
	}

	got, err := List(root, ".db")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "1_browser.db"),
		filepath.Join(root, "2_browser.db"),
	}, got)

	_, err = List(filepath.Join(root, "missing"), ".db")
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "f.db")
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	require.NoError(t, Remove(p))
	assert.False(t, Exists(p))
	require.ErrorIs(t, Remove(p), ErrFileNotFound)
}
