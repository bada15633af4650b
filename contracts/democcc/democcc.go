// Package democcc is a bundled example contract demonstrating
// cross-contract calls, a Go port of example_contracts/demo_ccc from the
// original prototype: it calls out to fibonacci.spin and to an
// arbitrary token contract's transfer method.
package democcc

import (
	"github.com/qianbin/drlp"

	"github.com/spinvm/spinvm/guest"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

type fibonacciAndMultiplyArgs struct {
	N          uint32
	Multiplier uint64
}

type transferTokenArgs struct {
	TokenAccount string
	Recipient    string
	Amount       []byte // uint256 big-endian bytes, kept opaque to this contract
}

// Entrypoint dispatches call.Method, mirroring the original prototype's
// hello/fibonacci_and_multiply/transfer_token trio.
func Entrypoint(env *guest.Env, call primitives.FunctionCall) ([]byte, error) {
	switch call.Method {
	case "hello":
		return hello(call.Args)
	case "fibonacci_and_multiply":
		return fibonacciAndMultiply(env, call.Args)
	case "transfer_token":
		return nil, transferToken(env, call.Args)
	default:
		return nil, spinerr.Wrapf(spinerr.ErrUnknownMethod, "demo_ccc: %q", call.Method)
	}
}

func hello(argBytes []byte) ([]byte, error) {
	var name string
	if err := drlp.DecodeBytes(argBytes, &name); err != nil {
		return nil, spinerr.Wrap(err, "demo_ccc.hello: decoding args")
	}
	return drlp.EncodeToBytes("Hello, " + name + "!")
}

func fibonacciAndMultiply(env *guest.Env, argBytes []byte) ([]byte, error) {
	var args fibonacciAndMultiplyArgs
	if err := drlp.DecodeBytes(argBytes, &args); err != nil {
		return nil, spinerr.Wrap(err, "demo_ccc.fibonacci_and_multiply: decoding args")
	}

	nArg, err := drlp.EncodeToBytes(args.N)
	if err != nil {
		return nil, err
	}

	resultBytes, err := env.CrossContractCall(primitives.NewAccountId("fibonacci.spin"), "entrypoint", 10_000, nArg)
	if err != nil {
		return nil, spinerr.Wrap(err, "demo_ccc.fibonacci_and_multiply: cross-contract call failed")
	}

	var result uint64
	if err := drlp.DecodeBytes(resultBytes, &result); err != nil {
		return nil, spinerr.Wrap(err, "demo_ccc.fibonacci_and_multiply: decoding cross-call result")
	}

	return drlp.EncodeToBytes(result * args.Multiplier)
}

func transferToken(env *guest.Env, argBytes []byte) error {
	var args transferTokenArgs
	if err := drlp.DecodeBytes(argBytes, &args); err != nil {
		return spinerr.Wrap(err, "demo_ccc.transfer_token: decoding args")
	}

	transferArg, err := drlp.EncodeToBytes(struct {
		Recipient string
		Amount    []byte
	}{Recipient: args.Recipient, Amount: args.Amount})
	if err != nil {
		return err
	}

	_, err = env.CrossContractCall(primitives.NewAccountId(args.TokenAccount), "transfer", 100_000_000, transferArg)
	if err != nil {
		return spinerr.Wrap(err, "demo_ccc.transfer_token: cross-contract call failed")
	}
	return nil
}
