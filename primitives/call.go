package primitives

import (
	"github.com/spinvm/spinvm/primitives/codec"
)

// ContractCall is the universal envelope for any invocation, top-level or
// nested: it carries both the call target and the identity context the
// call runs in. Its canonical byte encoding is what gets hashed into
// call_hash, so the field order here IS the wire format.
type ContractCall struct {
	Account     AccountId
	Method      string
	Args        []byte
	AttachedGas uint64
	Sender      AccountId
	Signer      AccountId
}

// FunctionCall is the portion of a ContractCall a guest sees once identity
// has been stripped out by the host.
type FunctionCall struct {
	Method string
	Args   []byte
}

// FunctionCall projects the identity-bearing fields away.
func (c ContractCall) FunctionCall() FunctionCall {
	return FunctionCall{Method: c.Method, Args: c.Args}
}

// Encode appends c's canonical byte encoding to e.
func (c ContractCall) Encode(e *codec.Encoder) {
	e.WriteString(c.Account.String())
	e.WriteString(c.Method)
	e.WriteBytes(c.Args)
	e.WriteUint64(c.AttachedGas)
	e.WriteString(c.Sender.String())
	e.WriteString(c.Signer.String())
}

// Bytes returns the canonical encoding of c.
func (c ContractCall) Bytes() []byte {
	e := codec.NewEncoder()
	c.Encode(e)
	return e.Bytes()
}

// Hash returns SHA256(canonical(c)), the call_hash committed by the
// invocation c starts.
func (c ContractCall) Hash() Digest {
	return SHA256(c.Bytes())
}

// DecodeContractCall reads a ContractCall from its canonical encoding.
func DecodeContractCall(b []byte) (ContractCall, error) {
	d := codec.NewDecoder(b)
	account, err := d.ReadString()
	if err != nil {
		return ContractCall{}, err
	}
	method, err := d.ReadString()
	if err != nil {
		return ContractCall{}, err
	}
	args, err := d.ReadBytes()
	if err != nil {
		return ContractCall{}, err
	}
	gas, err := d.ReadUint64()
	if err != nil {
		return ContractCall{}, err
	}
	sender, err := d.ReadString()
	if err != nil {
		return ContractCall{}, err
	}
	signer, err := d.ReadString()
	if err != nil {
		return ContractCall{}, err
	}
	return ContractCall{
		Account:     NewAccountId(account),
		Method:      method,
		Args:        args,
		AttachedGas: gas,
		Sender:      NewAccountId(sender),
		Signer:      NewAccountId(signer),
	}, nil
}

// Encode appends f's canonical byte encoding to e.
func (f FunctionCall) Encode(e *codec.Encoder) {
	e.WriteString(f.Method)
	e.WriteBytes(f.Args)
}

// Bytes returns the canonical encoding of f.
func (f FunctionCall) Bytes() []byte {
	e := codec.NewEncoder()
	f.Encode(e)
	return e.Bytes()
}

// DecodeFunctionCall reads a FunctionCall from its canonical encoding.
func DecodeFunctionCall(b []byte) (FunctionCall, error) {
	d := codec.NewDecoder(b)
	method, err := d.ReadString()
	if err != nil {
		return FunctionCall{}, err
	}
	args, err := d.ReadBytes()
	if err != nil {
		return FunctionCall{}, err
	}
	return FunctionCall{Method: method, Args: args}, nil
}

// CallEnv is the identity/budget tuple the GET_ENV syscall hands to a
// freshly started guest invocation.
type CallEnv struct {
	Signer      AccountId
	Caller      AccountId
	Contract    AccountId
	AttachedGas uint64
}

// Encode appends c's canonical byte encoding to enc.
func (c CallEnv) Encode(enc *codec.Encoder) {
	enc.WriteString(c.Signer.String())
	enc.WriteString(c.Caller.String())
	enc.WriteString(c.Contract.String())
	enc.WriteUint64(c.AttachedGas)
}

// Bytes returns the canonical encoding of c.
func (c CallEnv) Bytes() []byte {
	e := codec.NewEncoder()
	c.Encode(e)
	return e.Bytes()
}

// DecodeCallEnv reads a CallEnv from its canonical encoding.
func DecodeCallEnv(b []byte) (CallEnv, error) {
	d := codec.NewDecoder(b)
	signer, err := d.ReadString()
	if err != nil {
		return CallEnv{}, err
	}
	caller, err := d.ReadString()
	if err != nil {
		return CallEnv{}, err
	}
	contract, err := d.ReadString()
	if err != nil {
		return CallEnv{}, err
	}
	gas, err := d.ReadUint64()
	if err != nil {
		return CallEnv{}, err
	}
	return CallEnv{
		Signer:      NewAccountId(signer),
		Caller:      NewAccountId(caller),
		Contract:    NewAccountId(contract),
		AttachedGas: gas,
	}, nil
}
