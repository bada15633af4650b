// Package contracts holds the bundled example guest programs and the
// account-id-keyed registry the contractvm.RegistryExecutor dispatches
// through. Each program is written against the guest SDK exactly as a
// real compiled contract would be; this package is the only place that
// knows the mapping from account id to implementation.
package contracts

import (
	"github.com/spinvm/spinvm/contracts/counter"
	"github.com/spinvm/spinvm/contracts/democcc"
	"github.com/spinvm/spinvm/contracts/fibonacci"
	"github.com/spinvm/spinvm/contracts/token"
	"github.com/spinvm/spinvm/contractvm"
	"github.com/spinvm/spinvm/primitives"
)

// Bundled is the registry of every example contract shipped with this
// runtime, keyed by the account id each is deployed under.
var Bundled = NewRegistry(map[primitives.AccountId]contractvm.GuestProgram{
	primitives.NewAccountId("counter.spin"):   counter.Entrypoint,
	primitives.NewAccountId("fibonacci.spin"): fibonacci.Entrypoint,
	primitives.NewAccountId("token.spin"):     token.Entrypoint,
	primitives.NewAccountId("demo_ccc.spin"):  democcc.Entrypoint,
})

// Registry is a static, in-memory contractvm.Registry.
type Registry struct {
	programs map[primitives.AccountId]contractvm.GuestProgram
}

// NewRegistry returns a Registry dispatching exactly the given programs.
func NewRegistry(programs map[primitives.AccountId]contractvm.GuestProgram) *Registry {
	return &Registry{programs: programs}
}

// Lookup implements contractvm.Registry.
func (r *Registry) Lookup(account primitives.AccountId) (contractvm.GuestProgram, bool) {
	p, ok := r.programs[account]
	return p, ok
}
