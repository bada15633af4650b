// Package primitives holds the wire types shared by every component of the
// runtime: account identifiers, the call envelope, the execution outcome,
// and the storage/cross-call request and response shapes. All types here
// are value objects with a canonical, byte-stable serialization provided by
// primitives/codec.
package primitives

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AccountId is an opaque identifier for a contract or signer account. It is
// a value object: cheap to copy, compared and hashed by its underlying
// string, and never mutated in place.
type AccountId string

// NewAccountId builds an AccountId from a free-form name, e.g. "alice.spin".
func NewAccountId(name string) AccountId {
	return AccountId(name)
}

// NewEVMAccountId derives the deterministic account id for an EVM address,
// e.g. "0x0ff1ce...01.evm". This is the account-space counterpart of
// GET_ACCOUNT_MAPPING: every EVM address reachable from the meta-contract
// has exactly one AccountId, and it is computed, never chosen.
func NewEVMAccountId(addr common.Address) AccountId {
	return AccountId(fmt.Sprintf("%s.evm", addr.Hex()))
}

// String returns the underlying account name.
func (a AccountId) String() string {
	return string(a)
}

// SystemMetaContractAccountID is reserved per the original prototype
// (SYSTEM_META_CONTRACT_ACCOUNT_ID). It is not dispatched anywhere in this
// runtime; it exists only so the reservation is visible and callers don't
// accidentally collide with it.
const SystemMetaContractAccountID AccountId = "spin"

// EVMMetaContractAccountID is the well-known account id that resolves to
// the embedded EVM meta-contract ELF (see contractvm.Loader).
const EVMMetaContractAccountID AccountId = "evm"
