// Package guest is the in-guest SDK: the API surface a contract program
// is written against. It never talks to a storage backend or another
// contract directly — every effect is mediated by a HostBridge, so the
// exact same contract code runs whether the bridge is the in-process
// adapter used by tests and the registry dispatcher, or (behind the
// zkvm_guest build tag) the real zkVM syscall trampoline.
package guest

import (
	"sync"

	"github.com/qianbin/drlp"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

type cacheEntry struct {
	value   []byte
	present bool
	dirty   bool
}

// Env is the per-invocation singleton a guest program reads and writes
// through. It is initialized lazily on first access from a GET_ENV
// syscall via the bound HostBridge, and is consumed by Commit — any SDK
// call made after Commit returns undefined behavior, exactly as the spec
// describes for the real zkVM journal.
type Env struct {
	mu     sync.Mutex
	bridge HostBridge

	initialized bool
	callEnv     primitives.CallEnv
	callHash    primitives.Digest

	storageCache        map[primitives.StorageKey]*cacheEntry
	initialStorageHashes map[primitives.StorageKey]primitives.Digest
	crossCallsHashes     []primitives.CrossCallHash

	committed bool
}

// Init returns a fresh Env bound to bridge for one invocation. callHash
// is the SHA-256 of the canonical ContractCall that started this
// invocation, computed by the driver before the guest ever runs.
func Init(bridge HostBridge, callHash primitives.Digest) *Env {
	return &Env{
		bridge:               bridge,
		callHash:             callHash,
		storageCache:         make(map[primitives.StorageKey]*cacheEntry),
		initialStorageHashes: make(map[primitives.StorageKey]primitives.Digest),
	}
}

func (e *Env) ensureInitialized() error {
	if e.initialized {
		return nil
	}
	callEnv, err := e.bridge.GetEnv()
	if err != nil {
		return spinerr.Wrap(err, "GET_ENV syscall failed")
	}
	e.callEnv = callEnv
	e.initialized = true
	return nil
}

// Signer returns the identity that originally signed the top-level call.
func (e *Env) Signer() (primitives.AccountId, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureInitialized(); err != nil {
		return "", err
	}
	return e.callEnv.Signer, nil
}

// Caller returns the account that invoked the current contract.
func (e *Env) Caller() (primitives.AccountId, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureInitialized(); err != nil {
		return "", err
	}
	return e.callEnv.Caller, nil
}

// Contract returns the account this invocation is running as.
func (e *Env) Contract() (primitives.AccountId, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureInitialized(); err != nil {
		return "", err
	}
	return e.callEnv.Contract, nil
}

// AttachedGas returns the gas budget attached to the current invocation.
func (e *Env) AttachedGas() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureInitialized(); err != nil {
		return 0, err
	}
	return e.callEnv.AttachedGas, nil
}

func (e *Env) getRaw(key primitives.StorageKey) ([]byte, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if entry, ok := e.storageCache[key]; ok {
		return entry.value, entry.present, nil
	}

	resp, err := e.bridge.GetStorage(primitives.GetStorageRequest{Key: key})
	if err != nil {
		return nil, false, spinerr.Wrap(err, "GET_STORAGE syscall failed")
	}

	e.storageCache[key] = &cacheEntry{value: resp.Storage, present: resp.Present}
	e.initialStorageHashes[key] = resp.Hash
	return resp.Storage, resp.Present, nil
}

func (e *Env) setRaw(key primitives.StorageKey, value []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.storageCache[key] = &cacheEntry{value: value, present: true, dirty: true}
}

// GetStorageBytes returns the raw bytes cached under key, materializing
// it from the host on first access. ok is false iff the key has never
// been written.
func (e *Env) GetStorageBytes(key primitives.StorageKey) (value []byte, ok bool, err error) {
	return e.getRaw(key)
}

// SetStorageBytes updates the cache for key; it does not syscall
// immediately — the write is only made durable when Commit runs.
func (e *Env) SetStorageBytes(key primitives.StorageKey, value []byte) {
	e.setRaw(key, value)
}

// GetStorage decodes the cached bytes under key into a value of type T
// using the drlp application-level encoding. ok is false iff the key has
// never been written.
func GetStorage[T any](e *Env, key primitives.StorageKey) (value T, ok bool, err error) {
	raw, present, err := e.getRaw(key)
	if err != nil || !present {
		return value, present, err
	}
	if err := drlp.DecodeBytes(raw, &value); err != nil {
		return value, false, spinerr.Wrap(err, "decoding storage value")
	}
	return value, true, nil
}

// SetStorage encodes value with drlp and caches it under key.
func SetStorage[T any](e *Env, key primitives.StorageKey, value T) error {
	raw, err := drlp.EncodeToBytes(value)
	if err != nil {
		return spinerr.Wrap(err, "encoding storage value")
	}
	e.setRaw(key, raw)
	return nil
}

// CrossContractCall issues a synchronous, recursive call to another
// contract. It asserts the child's call_hash matches the locally
// computed hash of the child ContractCall it built (a host that ran a
// different call than requested is a fatal inconsistency), then records
// (call_hash, SHA256(output)) into cross_calls_hashes before returning
// the child's output to caller code.
func (e *Env) CrossContractCall(account primitives.AccountId, method string, attachedGas uint64, args []byte) ([]byte, error) {
	e.mu.Lock()
	if err := e.ensureInitialized(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	contract := e.callEnv.Contract
	signer := e.callEnv.Signer
	e.mu.Unlock()

	req := primitives.CrossContractCallRequest{
		Account:     account,
		Method:      method,
		Args:        args,
		AttachedGas: attachedGas,
	}

	expected := primitives.ContractCall{
		Account:     account,
		Method:      method,
		Args:        args,
		AttachedGas: attachedGas,
		Sender:      contract,
		Signer:      signer,
	}.Hash()

	outcome, err := e.bridge.CrossContractCall(req)
	if err != nil {
		return nil, spinerr.Wrap(err, "CROSS_CONTRACT_CALL syscall failed")
	}
	if outcome.CallHash != expected {
		return nil, spinerr.Wrap(spinerr.ErrHashMismatch, "child call_hash does not match the call that was requested")
	}

	e.mu.Lock()
	e.crossCallsHashes = append(e.crossCallsHashes, primitives.CrossCallHash{
		CallHash:   outcome.CallHash,
		OutputHash: primitives.SHA256(outcome.Output),
	})
	e.mu.Unlock()

	return outcome.Output, nil
}

// GetAccountMapping resolves account to its EVM address via the host's
// account-mapping resolver.
func (e *Env) GetAccountMapping(account primitives.AccountId) ([20]byte, error) {
	return e.bridge.GetAccountMapping(account)
}

// Commit seals the invocation: every dirty cache entry is flushed to the
// host via SET_STORAGE, the hash sent with it recorded into storage_writes,
// and the final ExecutionOutcome is returned for the driver to write into
// the journal. Calling Commit a second time is a programming error.
func (e *Env) Commit(output []byte) (primitives.ExecutionOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committed {
		return primitives.ExecutionOutcome{}, spinerr.Wrap(spinerr.ErrMalformedRequest, "Env already committed")
	}
	e.committed = true

	outcome := primitives.NewExecutionOutcome(e.callHash)
	outcome.Output = output

	for key, hash := range e.initialStorageHashes {
		outcome.StorageReads[string(key)] = hash
	}

	for key, entry := range e.storageCache {
		if !entry.dirty {
			continue
		}
		hash := primitives.SHA256(entry.value)
		if err := e.bridge.SetStorage(primitives.SetStorageRequest{Key: key, Hash: hash, Storage: entry.value}); err != nil {
			return primitives.ExecutionOutcome{}, spinerr.Wrap(err, "SET_STORAGE syscall failed")
		}
		outcome.StorageWrites[string(key)] = hash
	}

	outcome.CrossCallsHashes = e.crossCallsHashes
	return outcome, nil
}
