package contractvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinvm/spinvm/accountmap"
	"github.com/spinvm/spinvm/context"
	"github.com/spinvm/spinvm/guest"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
	"github.com/spinvm/spinvm/storage"
)

type mapRegistry map[primitives.AccountId]GuestProgram

func (m mapRegistry) Lookup(account primitives.AccountId) (GuestProgram, bool) {
	p, ok := m[account]
	return p, ok
}

func counterProgram(env *guest.Env, call primitives.FunctionCall) ([]byte, error) {
	raw, present, err := env.GetStorageBytes("count")
	if err != nil {
		return nil, err
	}
	count := uint64(0)
	if present {
		count = uint64(raw[0])
	}
	if call.Method == "increment" {
		count++
		env.SetStorageBytes("count", []byte{byte(count)})
	}
	return []byte{byte(count)}, nil
}

func newTestDriver(t *testing.T, registry Registry) (*Driver, string) {
	t.Helper()
	contractsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contractsDir, "counter.spin"), []byte("counter.spin"), 0o644))

	loader, err := NewLoader(contractsDir, 16)
	require.NoError(t, err)

	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewContractStore(fs, 0)

	resolver := accountmap.NewStaticResolver()
	executor := NewRegistryExecutor(registry)

	return NewDriver(loader, store, resolver, executor), contractsDir
}

func TestDriverExecutesGuestProgramAndUpdatesGas(t *testing.T) {
	registry := mapRegistry{primitives.NewAccountId("counter.spin"): counterProgram}
	driver, _ := newTestDriver(t, registry)

	call := primitives.ContractCall{
		Account:     primitives.NewAccountId("counter.spin"),
		Method:      "increment",
		AttachedGas: 1_000_000,
		Sender:      primitives.NewAccountId("alice.spin"),
		Signer:      primitives.NewAccountId("alice.spin"),
	}
	ctx := context.New(call)

	outcome, err := driver.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, outcome.Output)
	assert.Equal(t, call.Hash(), outcome.CallHash)
	assert.NotZero(t, ctx.UsedGas(), "the driver must set used_gas from the session's segments")
	assert.NotNil(t, ctx.ExecutionSession())
}

func TestDriverPersistsStorageAcrossInvocations(t *testing.T) {
	registry := mapRegistry{primitives.NewAccountId("counter.spin"): counterProgram}
	driver, _ := newTestDriver(t, registry)

	makeCall := func() primitives.ContractCall {
		return primitives.ContractCall{
			Account:     primitives.NewAccountId("counter.spin"),
			Method:      "increment",
			AttachedGas: 1_000_000,
			Sender:      primitives.NewAccountId("alice.spin"),
			Signer:      primitives.NewAccountId("alice.spin"),
		}
	}

	first, err := driver.Execute(context.New(makeCall()))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, first.Output)

	second, err := driver.Execute(context.New(makeCall()))
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, second.Output, "storage writes from one invocation must be visible to the next")
}

func TestDriverRejectsUnknownContract(t *testing.T) {
	registry := mapRegistry{}
	driver, _ := newTestDriver(t, registry)

	call := primitives.ContractCall{Account: primitives.NewAccountId("ghost.spin"), AttachedGas: 1000}
	_, err := driver.Execute(context.New(call))
	assert.ErrorIs(t, err, spinerr.ErrContractNotFound)
}

func TestDriverRejectsUnregisteredGuestProgram(t *testing.T) {
	registry := mapRegistry{}
	contractsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contractsDir, "mystery.spin"), []byte("mystery.spin"), 0o644))
	loader, err := NewLoader(contractsDir, 16)
	require.NoError(t, err)

	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewContractStore(fs, 0)
	driver := NewDriver(loader, store, accountmap.NewStaticResolver(), NewRegistryExecutor(registry))

	call := primitives.ContractCall{Account: primitives.NewAccountId("mystery.spin"), AttachedGas: 1000}
	_, err = driver.Execute(context.New(call))
	assert.ErrorIs(t, err, spinerr.ErrUnknownAccount)
}
