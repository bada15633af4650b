package contractvm

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/spinvm/spinvm/accountmap"
	"github.com/spinvm/spinvm/context"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
	"github.com/spinvm/spinvm/storage"
	"github.com/spinvm/spinvm/syscall"
)

// Driver orchestrates one contract invocation end to end: load the
// contract's image, build its syscall bridge, run its guest program, and
// fold the result back into the ExecutionContext it was given. It
// satisfies syscall.Runner so a Bridge can recurse into it for
// CROSS_CONTRACT_CALL without either package importing the other's
// concrete types.
type Driver struct {
	loader   *Loader
	store    *storage.ContractStore
	resolver accountmap.Resolver
	executor Executor
}

// NewDriver returns a Driver wiring the given loader, storage backend,
// account-mapping resolver, and executor together.
func NewDriver(loader *Loader, store *storage.ContractStore, resolver accountmap.Resolver, executor Executor) *Driver {
	return &Driver{loader: loader, store: store, resolver: resolver, executor: executor}
}

// Execute runs ctx's call to completion: loads the contract, runs its
// guest program through the five syscall handlers, converts the
// resulting session's segments into a gas charge, attaches the session to
// ctx, and returns the resulting ExecutionOutcome.
func (d *Driver) Execute(ctx *context.ExecutionContext) (primitives.ExecutionOutcome, error) {
	call := ctx.Call()
	logger := log.New("contract", call.Account.String(), "method", call.Method)
	logger.Debug("executing contract")

	image, err := d.loader.Load(call.Account)
	if err != nil {
		return primitives.ExecutionOutcome{}, spinerr.Wrapf(err, "loading contract %q", call.Account.String())
	}

	bridge := syscall.NewBridge(ctx, d.store, d.resolver, d)
	callHash := call.Hash()

	session, err := d.executor.Run(call.Account, image, call.FunctionCall(), callHash, bridge)
	if err != nil {
		logger.Debug("guest run failed", "err", err)
		return primitives.ExecutionOutcome{}, spinerr.Wrapf(err, "running contract %q", call.Account.String())
	}

	outcome, err := primitives.DecodeExecutionOutcome(session.Journal)
	if err != nil {
		return primitives.ExecutionOutcome{}, spinerr.Wrap(err, "decoding committed outcome")
	}
	if outcome.CallHash != callHash {
		return primitives.ExecutionOutcome{}, spinerr.Wrap(spinerr.ErrHashMismatch, "committed outcome does not match the call that was executed")
	}

	usedGas := session.UsedGas()
	ctx.SetGasUsage(usedGas)
	ctx.SetExecutionSession(session)

	logger.Debug("contract executed", "used_gas", usedGas, "segments", len(session.Segments))
	return outcome, nil
}
