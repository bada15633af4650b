// Package context implements the execution context tree: one node per
// in-flight invocation (top-level or nested cross-contract call), each
// tracking its own gas usage against the budget attached to it.
package context

import (
	"sync"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// ExecutionContext is one node of the call tree. A top-level call has no
// parent; a cross-contract call's context is a child of its caller's.
// The mutex only guards against accidental re-entrancy from a caller
// driving two syscalls concurrently against the same node — execution is
// otherwise single-threaded and synchronous per call.
type ExecutionContext struct {
	mu sync.Mutex

	call     primitives.ContractCall
	usedGas  uint64
	children []*ExecutionContext

	session interface{}
}

// New returns a fresh top-level ExecutionContext for call.
func New(call primitives.ContractCall) *ExecutionContext {
	return &ExecutionContext{call: call}
}

// Call returns the ContractCall this context is executing.
func (c *ExecutionContext) Call() primitives.ContractCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call
}

// UsedGas returns the gas this context's own guest execution has
// reported using so far (not including children).
func (c *ExecutionContext) UsedGas() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedGas
}

// SetGasUsage records the gas this context's guest execution used, as
// reported by the zkVM driver once the guest program halts.
func (c *ExecutionContext) SetGasUsage(usedGas uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usedGas = usedGas
}

// AvailableGas is the attached gas minus this context's own used gas
// minus the sum of every child's used gas, saturating at zero. It can
// only shrink over the lifetime of a context.
func (c *ExecutionContext) AvailableGas() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var childGas uint64
	for _, child := range c.children {
		childGas += child.UsedGas()
	}

	remaining := saturatingSub(c.call.AttachedGas, c.usedGas)
	return saturatingSub(remaining, childGas)
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// SpawnChild starts a new child ExecutionContext for a cross-contract
// call made from c. It fails with ErrInsufficientGas if c's currently
// available gas is less than the gas the request wants to attach; the
// child's Sender/Signer are derived from c, never from the request, so a
// guest cannot forge the identity it calls out as.
func (c *ExecutionContext) SpawnChild(req primitives.CrossContractCallRequest) (*ExecutionContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var childGas uint64
	for _, child := range c.children {
		childGas += child.UsedGas()
	}
	available := saturatingSub(saturatingSub(c.call.AttachedGas, c.usedGas), childGas)
	if req.AttachedGas > available {
		return nil, spinerr.ErrInsufficientGas
	}

	childCall := primitives.ContractCall{
		Account:     req.Account,
		Method:      req.Method,
		Args:        req.Args,
		AttachedGas: req.AttachedGas,
		Sender:      c.call.Account,
		Signer:      c.call.Signer,
	}
	child := New(childCall)
	c.children = append(c.children, child)
	return child, nil
}

// Children returns the cross-contract-call contexts spawned from c, in
// call order.
func (c *ExecutionContext) Children() []*ExecutionContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ExecutionContext, len(c.children))
	copy(out, c.children)
	return out
}

// ExecutionSession returns the zkVM driver session attached to c, if any.
func (c *ExecutionContext) ExecutionSession() interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetExecutionSession attaches the zkVM driver session produced by
// running c's guest program.
func (c *ExecutionContext) SetExecutionSession(session interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}
