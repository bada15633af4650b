// Package gascharger provides host-side bookkeeping for the gas a Bridge
// spends doing its own work on a syscall (reading a request, hashing a
// value, resolving an account mapping) — distinct from the gas the guest
// program itself burns, which the zkVM driver derives from segment po2
// sizes. Separating the two lets an operator see where gas actually went.
package gascharger

import "fmt"

// Per-operation gas costs charged for host-side bookkeeping work. These
// are nominal, not derived from any zkVM cycle count; they exist so a
// Bridge can charge something distinguishable per operation class.
const (
	StorageReadGas       uint64 = 200
	StorageWriteGas      uint64 = 5000
	AccountMappingGas    uint64 = 100
	CrossContractCallGas uint64 = 700
)

// ExecutionContext is the minimal interface a Charger needs from the
// context it charges against.
type ExecutionContext interface {
	SetGasUsage(uint64)
	UsedGas() uint64
}

// Charger accumulates host-side gas charges against one ExecutionContext
// and classifies them by operation, mirroring the breakdown a syscall
// bridge reports to an operator for debugging a gas-exhaustion scenario.
type Charger struct {
	ctx ExecutionContext

	storageReadOps       uint64
	storageWriteOps      uint64
	accountMappingOps    uint64
	crossContractCallOps uint64
	customGas            uint64
	totalGas             uint64
}

// New returns a Charger that charges against ctx.
func New(ctx ExecutionContext) *Charger {
	return &Charger{ctx: ctx}
}

// Charge adds gas to the total and to ctx's used gas, classifying it by
// the first known per-operation cost (write, cross call, read, account
// mapping, in that order) that gas is a whole multiple of; anything else
// is counted as custom gas.
func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	case gas%StorageWriteGas == 0 && gas > 0:
		c.storageWriteOps += gas / StorageWriteGas
	case gas%CrossContractCallGas == 0 && gas > 0:
		c.crossContractCallOps += gas / CrossContractCallGas
	case gas%StorageReadGas == 0 && gas > 0:
		c.storageReadOps += gas / StorageReadGas
	case gas%AccountMappingGas == 0 && gas > 0:
		c.accountMappingOps += gas / AccountMappingGas
	default:
		c.customGas += gas
	}

	c.ctx.SetGasUsage(c.ctx.UsedGas() + gas)
}

// Breakdown renders a human-readable summary of what was charged, by
// operation class.
func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"STORAGE_READ: %d ops (%d gas) | STORAGE_WRITE: %d ops (%d gas) | ACCOUNT_MAPPING: %d ops (%d gas) | CROSS_CALL: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.storageReadOps, c.storageReadOps*StorageReadGas,
		c.storageWriteOps, c.storageWriteOps*StorageWriteGas,
		c.accountMappingOps, c.accountMappingOps*AccountMappingGas,
		c.crossContractCallOps, c.crossContractCallOps*CrossContractCallGas,
		c.customGas,
		c.totalGas,
	)
}

// TotalGas returns the cumulative gas charged.
func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
