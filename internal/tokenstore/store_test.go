package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewAt(t.TempDir())

	require.NoError(t, s.Save("tok-abc123"))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-abc123", got)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := NewAt(t.TempDir())
	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	s := NewAt(t.TempDir())
	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClear(t *testing.T) {
	s := NewAt(t.TempDir())
	require.NoError(t, s.Save("tok"))
	require.NoError(t, s.Clear())

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)

	// clearing again is fine
	require.NoError(t, s.Clear())
}

func TestTokenNotStoredInPlainText(t *testing.T) {
	dir := t.TempDir()
	s := NewAt(dir)
	require.NoError(t, s.Save("super-secret-token"))

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.NotContains(t, string(data), "super-secret-token")

	var tf tokenFile
	require.NoError(t, json.Unmarshal(data, &tf))
	require.NotEmpty(t, tf.Token)
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := NewAt(dir)
	require.NoError(t, s.Save("tok"))

	info, err := os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
