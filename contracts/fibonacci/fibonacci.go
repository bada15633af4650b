// Package fibonacci is a bundled example contract with a single pure
// method, a Go port of example_contracts/fibonacci from the original
// prototype. It touches no storage, which makes it a convenient target
// for cross-contract-call demonstrations.
package fibonacci

import (
	"github.com/qianbin/drlp"

	"github.com/spinvm/spinvm/guest"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// Entrypoint dispatches call.Method; "fibonacci" (and "entrypoint", the
// method name demo_ccc's original prototype called it under) both invoke
// the same computation.
func Entrypoint(_ *guest.Env, call primitives.FunctionCall) ([]byte, error) {
	switch call.Method {
	case "fibonacci", "entrypoint":
		return compute(call.Args)
	default:
		return nil, spinerr.Wrapf(spinerr.ErrUnknownMethod, "fibonacci: %q", call.Method)
	}
}

func compute(argBytes []byte) ([]byte, error) {
	var n uint32
	if err := drlp.DecodeBytes(argBytes, &n); err != nil {
		return nil, spinerr.Wrap(err, "fibonacci: decoding args")
	}

	a, b := uint64(0), uint64(1)
	for i := uint32(0); i < n; i++ {
		a, b = b, a+b
	}
	return drlp.EncodeToBytes(a)
}
