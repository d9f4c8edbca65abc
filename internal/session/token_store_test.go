package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	token, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, token, "absent file means unauthenticated, not an error")

	require.NoError(t, store.Save("tok-abc"))
	token, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-abc", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.Clear(), "clearing an already-absent token is a no-op")
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok-xyz\n"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	token, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-xyz", token)
}

func TestFileStoreDefaultsToHomeDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	store, err := NewFileStore("")
	require.NoError(t, err)
	require.NoError(t, store.Save("tok"))
	token, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok", token)
}
