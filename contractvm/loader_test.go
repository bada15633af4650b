package contractvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

func TestLoaderLoadsEVMMetaContractFromEmbeddedImage(t *testing.T) {
	loader, err := NewLoader(t.TempDir(), 16)
	require.NoError(t, err)

	image, err := loader.Load(primitives.EVMMetaContractAccountID)
	require.NoError(t, err)
	assert.NotEmpty(t, image)
}

func TestLoaderReadsAndCachesFromDisk(t *testing.T) {
	contractsDir := t.TempDir()
	path := filepath.Join(contractsDir, "counter.spin")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	loader, err := NewLoader(contractsDir, 16)
	require.NoError(t, err)

	image, err := loader.Load(primitives.NewAccountId("counter.spin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), image)

	// Rewriting the file on disk must not change what a cached Load
	// returns: the loader trusts its cache once populated.
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	cachedImage, err := loader.Load(primitives.NewAccountId("counter.spin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), cachedImage)
}

func TestLoaderRejectsUnknownAccount(t *testing.T) {
	loader, err := NewLoader(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = loader.Load(primitives.NewAccountId("ghost.spin"))
	assert.ErrorIs(t, err, spinerr.ErrContractNotFound)
}
