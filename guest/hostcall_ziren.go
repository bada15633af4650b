//go:build zkvm_guest

// This file is only compiled when building a contract for the real Ziren
// zkVM target (`-tags zkvm_guest`). It wires Env's HostBridge to the
// actual guest-side syscall trampoline instead of the in-process adapter
// used everywhere else, the Go analogue of the Rust SDK's
// `risc0_zkvm::guest::env::syscall(id, &request, &mut response)` calls.
package guest

import (
	"github.com/ProjectZKM/Ziren/crates/go-runtime/zkvm_runtime"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/primitives/codec"
)

// Syscall identifiers shared with the host-side driver; they must match
// the table the driver installs when constructing a guest executor.
const (
	getEnvCall            uint32 = 1
	getStorageCall        uint32 = 2
	setStorageCall        uint32 = 3
	crossContractCallCall uint32 = 4
	getAccountMappingCall uint32 = 5
)

// zirenBridge is the zkVM-target HostBridge: every call crosses the real
// guest/host syscall boundary via zkvm_runtime, round-tripping through
// the same canonical codec the host-side Bridge decodes with.
type zirenBridge struct{}

// NewZirenHostBridge returns the HostBridge a zkvm_guest-target contract
// binary should initialize Env with.
func NewZirenHostBridge() HostBridge {
	return zirenBridge{}
}

func (zirenBridge) GetEnv() (primitives.CallEnv, error) {
	resp := zkvm_runtime.Syscall(getEnvCall, nil)
	return primitives.DecodeCallEnv(resp)
}

func (zirenBridge) GetStorage(req primitives.GetStorageRequest) (primitives.GetStorageResponse, error) {
	resp := zkvm_runtime.Syscall(getStorageCall, req.Bytes())
	return primitives.DecodeGetStorageResponse(resp)
}

func (zirenBridge) SetStorage(req primitives.SetStorageRequest) error {
	zkvm_runtime.Syscall(setStorageCall, req.Bytes())
	return nil
}

func (zirenBridge) CrossContractCall(req primitives.CrossContractCallRequest) (primitives.ExecutionOutcome, error) {
	resp := zkvm_runtime.Syscall(crossContractCallCall, req.Bytes())
	return primitives.DecodeExecutionOutcome(resp)
}

func (zirenBridge) GetAccountMapping(account primitives.AccountId) ([20]byte, error) {
	e := codec.NewEncoder()
	e.WriteString(account.String())
	resp := zkvm_runtime.Syscall(getAccountMappingCall, e.Bytes())
	var addr [20]byte
	copy(addr[:], resp)
	return addr, nil
}

// Commit writes the outcome to the zkVM journal via the guest-side
// commit primitive, instead of returning it through an in-process call
// as the default-build Driver does.
func Commit(e *Env, output []byte) error {
	outcome, err := e.Commit(output)
	if err != nil {
		return err
	}
	zkvm_runtime.Commit(outcome.Bytes())
	return nil
}
