package guest

import "github.com/spinvm/spinvm/primitives"

// HostBridge is everything an Env singleton needs from the far side of
// the syscall boundary. In the default build it is an in-process adapter
// over a syscall.Bridge; built with the zkvm_guest tag it is backed by
// the real zkVM syscall trampoline (see hostcall_ziren.go), so guest code
// written against Env is identical in both builds.
type HostBridge interface {
	// GetEnv returns the call environment; the Env singleton calls this
	// at most once per invocation and memoizes the result.
	GetEnv() (primitives.CallEnv, error)

	// GetStorage returns the value stored under req.Key, if any.
	GetStorage(req primitives.GetStorageRequest) (primitives.GetStorageResponse, error)

	// SetStorage persists a dirty cache entry. The host verifies
	// SHA256(req.Storage) == req.Hash before committing the write.
	SetStorage(req primitives.SetStorageRequest) error

	// CrossContractCall runs a nested invocation to completion and
	// returns its full, sealed ExecutionOutcome.
	CrossContractCall(req primitives.CrossContractCallRequest) (primitives.ExecutionOutcome, error)

	// GetAccountMapping resolves account to its EVM address.
	GetAccountMapping(account primitives.AccountId) ([20]byte, error)
}
