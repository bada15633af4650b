// Package syscall implements the five handlers that mediate every effect
// a guest invocation can have on the outside world. A Bridge is bound to
// exactly one ExecutionContext for the duration of that context's guest
// run, mirroring how vechain-thor's bridge type is bound to one native
// call's (state, vmCtx, to, caller) tuple.
package syscall

import (
	"github.com/spinvm/spinvm/accountmap"
	"github.com/spinvm/spinvm/context"
	"github.com/spinvm/spinvm/context/gascharger"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
	"github.com/spinvm/spinvm/storage"
)

// Runner is the one method a Bridge needs from the driver to recurse
// into a child context for CROSS_CONTRACT_CALL. Defining it here (rather
// than importing the driver's package directly) keeps syscall free of a
// dependency on contractvm, which itself depends on syscall to build a
// Bridge for each context it executes.
type Runner interface {
	Execute(ctx *context.ExecutionContext) (primitives.ExecutionOutcome, error)
}

// Bridge implements guest.HostBridge for one ExecutionContext, backed by
// a ContractStore for persistence, a Resolver for account mappings, and
// a Runner to recurse into cross-contract calls.
type Bridge struct {
	ctx      *context.ExecutionContext
	store    *storage.ContractStore
	resolver accountmap.Resolver
	runner   Runner
	charger  *gascharger.Charger
}

// NewBridge returns a Bridge mediating effects for ctx.
func NewBridge(ctx *context.ExecutionContext, store *storage.ContractStore, resolver accountmap.Resolver, runner Runner) *Bridge {
	return &Bridge{
		ctx:      ctx,
		store:    store,
		resolver: resolver,
		runner:   runner,
		charger:  gascharger.New(ctx),
	}
}

// Charger exposes the bookkeeping charger so a driver can log its
// breakdown after the guest halts, before overwriting used_gas with the
// authoritative po2-derived figure.
func (b *Bridge) Charger() *gascharger.Charger {
	return b.charger
}

// GetEnv implements the GET_ENV syscall.
func (b *Bridge) GetEnv() (primitives.CallEnv, error) {
	b.charger.Charge(gascharger.AccountMappingGas)
	call := b.ctx.Call()
	return primitives.CallEnv{
		Signer:      call.Signer,
		Caller:      call.Sender,
		Contract:    call.Account,
		AttachedGas: call.AttachedGas,
	}, nil
}

// GetStorage implements the GET_STORAGE syscall: keys are absent, never
// an error, for a freshly initialized contract.
func (b *Bridge) GetStorage(req primitives.GetStorageRequest) (primitives.GetStorageResponse, error) {
	b.charger.Charge(gascharger.StorageReadGas)

	account := b.ctx.Call().Account
	value, hash, present, err := b.store.Get(account, req.Key)
	if err != nil {
		return primitives.GetStorageResponse{}, spinerr.Wrap(err, "GET_STORAGE")
	}
	if !present {
		return primitives.GetStorageResponse{Present: false, Hash: primitives.EmptyDigest}, nil
	}
	return primitives.GetStorageResponse{Storage: value, Present: true, Hash: hash}, nil
}

// SetStorage implements the SET_STORAGE syscall. It verifies
// SHA256(req.Storage) == req.Hash and aborts the whole invocation on
// mismatch, rather than silently persisting untrusted bytes.
func (b *Bridge) SetStorage(req primitives.SetStorageRequest) error {
	b.charger.Charge(gascharger.StorageWriteGas)

	if primitives.SHA256(req.Storage) != req.Hash {
		return spinerr.Wrap(spinerr.ErrHashMismatch, "SET_STORAGE hash does not match storage bytes")
	}

	account := b.ctx.Call().Account
	if _, err := b.store.Set(account, req.Key, req.Storage); err != nil {
		return spinerr.Wrap(err, "SET_STORAGE")
	}
	return nil
}

// CrossContractCall implements the CROSS_CONTRACT_CALL syscall: it spawns
// a child ExecutionContext (checking gas availability), recurses into
// the driver to run it to completion, and returns the child's full,
// sealed outcome verbatim — the parent guest is responsible for hashing
// and linking it.
func (b *Bridge) CrossContractCall(req primitives.CrossContractCallRequest) (primitives.ExecutionOutcome, error) {
	b.charger.Charge(gascharger.CrossContractCallGas)

	child, err := b.ctx.SpawnChild(req)
	if err != nil {
		return primitives.ExecutionOutcome{}, err
	}

	outcome, err := b.runner.Execute(child)
	if err != nil {
		return primitives.ExecutionOutcome{}, spinerr.Wrap(err, "cross-contract call failed")
	}
	return outcome, nil
}

// GetAccountMapping implements the GET_ACCOUNT_MAPPING syscall. Unknown
// accounts are fatal, not an absence the guest can branch on.
func (b *Bridge) GetAccountMapping(account primitives.AccountId) ([20]byte, error) {
	b.charger.Charge(gascharger.AccountMappingGas)

	addr, err := b.resolver.Resolve(account)
	if err != nil {
		return [20]byte{}, spinerr.Wrap(err, "GET_ACCOUNT_MAPPING")
	}
	return [20]byte(addr), nil
}
