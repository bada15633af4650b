package accountmap

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// StaticResolver is the bootstrap policy carried over from the original
// prototype: a fixed handful of named accounts, each assigned a
// 0x0FF1CE... address by convention. It exists to make the system
// runnable end to end; a real deployment is expected to replace it with
// YAMLResolver or its own Resolver.
type StaticResolver struct {
	mappings map[primitives.AccountId]common.Address
}

// NewStaticResolver returns the default four-identity mapping.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		mappings: map[primitives.AccountId]common.Address{
			primitives.NewAccountId("alice.spin"):   common.HexToAddress("0x0FF1CE0000000000000000000000000000000001"),
			primitives.NewAccountId("bob.spin"):     common.HexToAddress("0x0FF1CE0000000000000000000000000000000002"),
			primitives.NewAccountId("charlie.spin"): common.HexToAddress("0x0FF1CE0000000000000000000000000000000003"),
			primitives.NewAccountId("eve.spin"):     common.HexToAddress("0x0FF1CE0000000000000000000000000000000004"),
		},
	}
}

// Resolve looks up account in the static mapping.
func (r *StaticResolver) Resolve(account primitives.AccountId) (common.Address, error) {
	addr, ok := r.mappings[account]
	if !ok {
		return common.Address{}, spinerr.Wrapf(spinerr.ErrUnknownAccount, "no static mapping for %q", account.String())
	}
	return addr, nil
}

// Set adds or overwrites the mapping for account, so tests and demo
// drivers can extend the bootstrap set without a config file.
func (r *StaticResolver) Set(account primitives.AccountId, addr common.Address) {
	r.mappings[account] = addr
}
