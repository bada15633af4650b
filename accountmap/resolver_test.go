package accountmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

func TestStaticResolverKnownAccounts(t *testing.T) {
	r := NewStaticResolver()

	addr, err := r.Resolve(primitives.NewAccountId("alice.spin"))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x0FF1CE0000000000000000000000000000000001"), addr)

	_, err = r.Resolve(primitives.NewAccountId("mallory.spin"))
	assert.ErrorIs(t, err, spinerr.ErrUnknownAccount)
}

func TestStaticResolverSetOverride(t *testing.T) {
	r := NewStaticResolver()
	custom := common.HexToAddress("0x000000000000000000000000000000DEADBEEF")
	r.Set(primitives.NewAccountId("dave.spin"), custom)

	addr, err := r.Resolve(primitives.NewAccountId("dave.spin"))
	require.NoError(t, err)
	assert.Equal(t, custom, addr)
}

func TestYAMLResolverLoadsMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.yaml")
	content := "accounts:\n  alice.spin: \"0x0FF1CE0000000000000000000000000000000001\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadYAMLResolver(path)
	require.NoError(t, err)

	addr, err := r.Resolve(primitives.NewAccountId("alice.spin"))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x0FF1CE0000000000000000000000000000000001"), addr)

	_, err = r.Resolve(primitives.NewAccountId("bob.spin"))
	assert.ErrorIs(t, err, spinerr.ErrUnknownAccount)
}

func TestYAMLResolverRejectsMalformedAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.yaml")
	content := "accounts:\n  alice.spin: \"not-an-address\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadYAMLResolver(path)
	assert.ErrorIs(t, err, spinerr.ErrMalformedRequest)
}
