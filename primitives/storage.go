package primitives

import (
	"github.com/spinvm/spinvm/primitives/codec"
)

// StorageKey identifies one value slot within a contract's own namespace.
// The (AccountId, StorageKey) pair is the true content-addressed storage
// key; StorageKey alone is only ever meaningful paired with the contract
// account a Bridge is bound to.
type StorageKey string

// GetStorageRequest is what a guest sends on the GET_STORAGE syscall.
type GetStorageRequest struct {
	Key StorageKey
}

// Encode appends r's canonical byte encoding to e.
func (r GetStorageRequest) Encode(e *codec.Encoder) {
	e.WriteString(string(r.Key))
}

// Bytes returns the canonical encoding of r.
func (r GetStorageRequest) Bytes() []byte {
	e := codec.NewEncoder()
	r.Encode(e)
	return e.Bytes()
}

// DecodeGetStorageRequest reads a GetStorageRequest from its canonical
// encoding.
func DecodeGetStorageRequest(b []byte) (GetStorageRequest, error) {
	d := codec.NewDecoder(b)
	key, err := d.ReadString()
	if err != nil {
		return GetStorageRequest{}, err
	}
	return GetStorageRequest{Key: StorageKey(key)}, nil
}

// GetStorageResponse is what the host returns for a GET_STORAGE syscall.
// Present distinguishes "absent key" from "empty value"; Hash is the
// digest the outcome records regardless of which case applies (the digest
// of a zero-length value for an absent key).
type GetStorageResponse struct {
	Storage []byte
	Present bool
	Hash    Digest
}

// Encode appends r's canonical byte encoding to e.
func (r GetStorageResponse) Encode(e *codec.Encoder) {
	e.WriteBytes(r.Storage)
	if r.Present {
		e.WriteUint32(1)
	} else {
		e.WriteUint32(0)
	}
	e.WriteFixed(r.Hash.Bytes())
}

// Bytes returns the canonical encoding of r.
func (r GetStorageResponse) Bytes() []byte {
	e := codec.NewEncoder()
	r.Encode(e)
	return e.Bytes()
}

// DecodeGetStorageResponse reads a GetStorageResponse from its canonical
// encoding.
func DecodeGetStorageResponse(b []byte) (GetStorageResponse, error) {
	d := codec.NewDecoder(b)
	storage, err := d.ReadBytes()
	if err != nil {
		return GetStorageResponse{}, err
	}
	presentFlag, err := d.ReadUint32()
	if err != nil {
		return GetStorageResponse{}, err
	}
	hashBytes, err := d.ReadFixed(32)
	if err != nil {
		return GetStorageResponse{}, err
	}
	var hash Digest
	copy(hash[:], hashBytes)
	return GetStorageResponse{Storage: storage, Present: presentFlag != 0, Hash: hash}, nil
}

// SetStorageRequest is what a guest sends on the SET_STORAGE syscall. Hash
// is supplied by the caller's SDK layer (computed over Storage) rather than
// recomputed by the host purely so the host can cheaply verify it matches
// before committing the write — a mismatch is rejected with ErrHashMismatch.
type SetStorageRequest struct {
	Key     StorageKey
	Hash    Digest
	Storage []byte
}

// Encode appends r's canonical byte encoding to e.
func (r SetStorageRequest) Encode(e *codec.Encoder) {
	e.WriteString(string(r.Key))
	e.WriteFixed(r.Hash.Bytes())
	e.WriteBytes(r.Storage)
}

// Bytes returns the canonical encoding of r.
func (r SetStorageRequest) Bytes() []byte {
	e := codec.NewEncoder()
	r.Encode(e)
	return e.Bytes()
}

// DecodeSetStorageRequest reads a SetStorageRequest from its canonical
// encoding.
func DecodeSetStorageRequest(b []byte) (SetStorageRequest, error) {
	d := codec.NewDecoder(b)
	key, err := d.ReadString()
	if err != nil {
		return SetStorageRequest{}, err
	}
	hashBytes, err := d.ReadFixed(32)
	if err != nil {
		return SetStorageRequest{}, err
	}
	var hash Digest
	copy(hash[:], hashBytes)
	storage, err := d.ReadBytes()
	if err != nil {
		return SetStorageRequest{}, err
	}
	return SetStorageRequest{Key: StorageKey(key), Hash: hash, Storage: storage}, nil
}

// CrossContractCallRequest is what a guest sends on the
// CROSS_CONTRACT_CALL syscall: a target account/method/args pair, plus
// how much of the caller's remaining gas to attach. The host fills in
// Sender/Signer from the calling ExecutionContext before building the
// child ContractCall; a guest cannot forge its own identity.
type CrossContractCallRequest struct {
	Account     AccountId
	Method      string
	Args        []byte
	AttachedGas uint64
}

// Encode appends r's canonical byte encoding to e.
func (r CrossContractCallRequest) Encode(e *codec.Encoder) {
	e.WriteString(r.Account.String())
	e.WriteString(r.Method)
	e.WriteBytes(r.Args)
	e.WriteUint64(r.AttachedGas)
}

// Bytes returns the canonical encoding of r.
func (r CrossContractCallRequest) Bytes() []byte {
	e := codec.NewEncoder()
	r.Encode(e)
	return e.Bytes()
}

// DecodeCrossContractCallRequest reads a CrossContractCallRequest from its
// canonical encoding.
func DecodeCrossContractCallRequest(b []byte) (CrossContractCallRequest, error) {
	d := codec.NewDecoder(b)
	account, err := d.ReadString()
	if err != nil {
		return CrossContractCallRequest{}, err
	}
	method, err := d.ReadString()
	if err != nil {
		return CrossContractCallRequest{}, err
	}
	args, err := d.ReadBytes()
	if err != nil {
		return CrossContractCallRequest{}, err
	}
	gas, err := d.ReadUint64()
	if err != nil {
		return CrossContractCallRequest{}, err
	}
	return CrossContractCallRequest{
		Account:     NewAccountId(account),
		Method:      method,
		Args:        args,
		AttachedGas: gas,
	}, nil
}

// The CROSS_CONTRACT_CALL syscall response is the child's journal bytes
// verbatim — i.e. the full canonical ExecutionOutcome of the child
// invocation, decoded with DecodeExecutionOutcome. There is no separate
// response envelope: the parent guest hashes and links the child's
// outcome exactly as it was committed.
