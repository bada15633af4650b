// Package integration exercises the bundled contracts end to end
// through a real contractvm.Driver, covering spec.md §8's concrete
// scenarios and quantified invariants that no single package-level test
// can see across (gas accounting across a call tree, cross-call hash
// linkage, storage durability).
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/qianbin/drlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinvm/spinvm/accountmap"
	"github.com/spinvm/spinvm/context"
	"github.com/spinvm/spinvm/contracts"
	"github.com/spinvm/spinvm/contractvm"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
	"github.com/spinvm/spinvm/storage"
	"github.com/spinvm/spinvm/syscall"
)

func newDriver(t *testing.T) *contractvm.Driver {
	t.Helper()
	contractsDir := t.TempDir()
	for _, name := range []string{"counter.spin", "fibonacci.spin", "token.spin", "demo_ccc.spin"} {
		require.NoError(t, os.WriteFile(filepath.Join(contractsDir, name), []byte(name), 0o644))
	}
	loader, err := contractvm.NewLoader(contractsDir, 16)
	require.NoError(t, err)

	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewContractStore(fs, 4096)

	return contractvm.NewDriver(loader, store, accountmap.NewStaticResolver(), contractvm.NewRegistryExecutor(contracts.Bundled))
}

func call(account, method, signer string, args []byte, gas uint64) primitives.ContractCall {
	return primitives.ContractCall{
		Account:     primitives.NewAccountId(account),
		Method:      method,
		Args:        args,
		AttachedGas: gas,
		Sender:      primitives.NewAccountId(signer),
		Signer:      primitives.NewAccountId(signer),
	}
}

// Counter.init+add+get: after init and three adds, get commits 3; the
// outcome's storage_writes contains exactly one key for the final add.
func TestCounterInitAddGetScenario(t *testing.T) {
	driver := newDriver(t)

	initCall := call("counter.spin", "init", "alice.spin", nil, 1_000_000)
	_, err := driver.Execute(context.New(initCall))
	require.NoError(t, err)

	var lastAdd primitives.ExecutionOutcome
	for i := 0; i < 3; i++ {
		addCall := call("counter.spin", "add", "alice.spin", nil, 1_000_000)
		lastAdd, err = driver.Execute(context.New(addCall))
		require.NoError(t, err)
	}
	require.Len(t, lastAdd.StorageWrites, 1, "each add only touches the single counter key")

	getCall := call("counter.spin", "get", "alice.spin", nil, 1_000_000)
	outcome, err := driver.Execute(context.New(getCall))
	require.NoError(t, err)

	var value uint64
	require.NoError(t, drlp.DecodeBytes(outcome.Output, &value))
	assert.Equal(t, uint64(3), value)
}

// Fibonacci(10): pure computation, no storage touched, output is canonical(55).
func TestFibonacciScenarioTouchesNoStorage(t *testing.T) {
	driver := newDriver(t)

	argBytes, err := drlp.EncodeToBytes(uint32(10))
	require.NoError(t, err)

	c := call("fibonacci.spin", "fibonacci", "alice.spin", argBytes, 1_000_000)
	outcome, err := driver.Execute(context.New(c))
	require.NoError(t, err)

	assert.Empty(t, outcome.StorageReads)
	assert.Empty(t, outcome.StorageWrites)
	assert.Empty(t, outcome.CrossCallsHashes)

	var value uint64
	require.NoError(t, drlp.DecodeBytes(outcome.Output, &value))
	assert.Equal(t, uint64(55), value)
}

// fibonacci_and_multiply((10,3)): parent cross-calls fibonacci.spin,
// records exactly one (call_hash, output_hash) pair matching the
// child's actual committed call and output.
func TestFibonacciAndMultiplyRecordsCrossCallLinkage(t *testing.T) {
	driver := newDriver(t)

	argBytes, err := drlp.EncodeToBytes(struct {
		N          uint32
		Multiplier uint64
	}{N: 10, Multiplier: 3})
	require.NoError(t, err)

	c := call("demo_ccc.spin", "fibonacci_and_multiply", "alice.spin", argBytes, 1_000_000)
	outcome, err := driver.Execute(context.New(c))
	require.NoError(t, err)

	var result uint64
	require.NoError(t, drlp.DecodeBytes(outcome.Output, &result))
	assert.Equal(t, uint64(165), result)

	require.Len(t, outcome.CrossCallsHashes, 1)

	nArg, err := drlp.EncodeToBytes(uint32(10))
	require.NoError(t, err)
	expectedChildCall := primitives.ContractCall{
		Account:     primitives.NewAccountId("fibonacci.spin"),
		Method:      "entrypoint",
		Args:        nArg,
		AttachedGas: 10_000,
		Sender:      primitives.NewAccountId("demo_ccc.spin"),
		Signer:      primitives.NewAccountId("alice.spin"),
	}
	expectedOutput, err := drlp.EncodeToBytes(uint64(55))
	require.NoError(t, err)

	assert.Equal(t, expectedChildCall.Hash(), outcome.CrossCallsHashes[0].CallHash)
	assert.Equal(t, primitives.SHA256(expectedOutput), outcome.CrossCallsHashes[0].OutputHash)
}

// Token transfer: init(SPIN, 100) by alice; transfer(bob, 10) by alice;
// balance_of(alice) = 90, balance_of(bob) = 10; a transfer exceeding the
// sender's balance fails and leaves prior balances untouched.
func TestTokenTransferScenario(t *testing.T) {
	driver := newDriver(t)

	initArgs, err := drlp.EncodeToBytes(struct {
		Ticker        string
		InitialSupply *uint256.Int
	}{Ticker: "SPIN", InitialSupply: uint256.NewInt(100)})
	require.NoError(t, err)
	_, err = driver.Execute(context.New(call("token.spin", "init", "alice.spin", initArgs, 1_000_000)))
	require.NoError(t, err)

	transferArgs, err := drlp.EncodeToBytes(struct {
		Recipient string
		Amount    *uint256.Int
	}{Recipient: "bob.spin", Amount: uint256.NewInt(10)})
	require.NoError(t, err)
	_, err = driver.Execute(context.New(call("token.spin", "transfer", "alice.spin", transferArgs, 1_000_000)))
	require.NoError(t, err)

	balanceOf := func(account string) uint64 {
		argBytes, err := drlp.EncodeToBytes(account)
		require.NoError(t, err)
		outcome, err := driver.Execute(context.New(call("token.spin", "balance_of", "alice.spin", argBytes, 1_000_000)))
		require.NoError(t, err)
		return new(uint256.Int).SetBytes(outcome.Output).Uint64()
	}
	assert.Equal(t, uint64(90), balanceOf("alice.spin"))
	assert.Equal(t, uint64(10), balanceOf("bob.spin"))

	overdrawArgs, err := drlp.EncodeToBytes(struct {
		Recipient string
		Amount    *uint256.Int
	}{Recipient: "bob.spin", Amount: uint256.NewInt(1000)})
	require.NoError(t, err)
	_, err = driver.Execute(context.New(call("token.spin", "transfer", "alice.spin", overdrawArgs, 1_000_000)))
	assert.Error(t, err, "a transfer exceeding the sender's balance must fail the guest")

	assert.Equal(t, uint64(90), balanceOf("alice.spin"), "a failed transfer must not move balances")
	assert.Equal(t, uint64(10), balanceOf("bob.spin"))
}

// Gas exhaustion: a parent with attached_gas = G cross-calling a child
// requesting more than G must be rejected before the child ever runs.
func TestCrossContractCallGasExhaustionScenario(t *testing.T) {
	driver := newDriver(t)

	transferArgs, err := drlp.EncodeToBytes(struct {
		TokenAccount string
		Recipient    string
		Amount       []byte
	}{TokenAccount: "token.spin", Recipient: "bob.spin", Amount: uint256.NewInt(5).Bytes()})
	require.NoError(t, err)

	// demo_ccc.transfer_token attaches 100_000_000 gas to its nested
	// call; granting the parent less than that must fail fast.
	c := call("demo_ccc.spin", "transfer_token", "alice.spin", transferArgs, 1_000)
	_, err = driver.Execute(context.New(c))
	assert.ErrorIs(t, err, spinerr.ErrInsufficientGas)
}

// Hash tamper: a SET_STORAGE request whose declared hash doesn't match
// the storage bytes must be rejected by the bridge, and nothing must
// land in the backing store.
func TestSetStorageHashTamperIsRejected(t *testing.T) {
	contractsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contractsDir, "counter.spin"), []byte("counter.spin"), 0o644))

	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewContractStore(fs, 0)

	ctx := context.New(call("counter.spin", "add", "alice.spin", nil, 1_000_000))
	bridge := syscall.NewBridge(ctx, store, accountmap.NewStaticResolver(), stubRunner{})

	err = bridge.SetStorage(primitives.SetStorageRequest{
		Key:     "value",
		Storage: []byte("1"),
		Hash:    primitives.SHA256([]byte("not-1")),
	})
	assert.ErrorIs(t, err, spinerr.ErrHashMismatch)

	_, _, present, err := store.Get(primitives.NewAccountId("counter.spin"), "value")
	require.NoError(t, err)
	assert.False(t, present, "a rejected SET_STORAGE must not persist any bytes")
}

type stubRunner struct{}

func (stubRunner) Execute(ctx *context.ExecutionContext) (primitives.ExecutionOutcome, error) {
	return primitives.ExecutionOutcome{}, nil
}
