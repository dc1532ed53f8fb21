package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/vault"
)

func TestFileTransport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "vault.coffer")
	transport := vault.NewFileTransport(path)

	_, err := transport.Load(ctx)
	assert.ErrorIs(t, err, vault.ErrNoVault)

	require.NoError(t, transport.Store(ctx, []byte("envelope one")))

	data, err := transport.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "envelope one", string(data))

	// Overwrites replace atomically.
	require.NoError(t, transport.Store(ctx, []byte("envelope two")))

	data, err = transport.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "envelope two", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, transport.Delete(ctx))

	_, err = transport.Load(ctx)
	assert.ErrorIs(t, err, vault.ErrNoVault)

	// Deleting twice is fine.
	require.NoError(t, transport.Delete(ctx))
}
