// Package accountmap implements the AccountId -> EVM address mapping that
// backs GET_ACCOUNT_MAPPING. The policy for assigning addresses to
// accounts is deliberately pluggable: the runtime ships a hardcoded
// bootstrap policy and a config-file-backed one, but does not claim
// either is the production answer.
package accountmap

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/spinvm/spinvm/primitives"
)

// Resolver maps an AccountId to the EVM address the embedded meta-contract
// should see it as.
type Resolver interface {
	Resolve(account primitives.AccountId) (common.Address, error)
}
