// Package counter is the simplest bundled example contract: a single
// u64 counter, a Go port of example_contracts/counter from the original
// prototype.
package counter

import (
	"github.com/qianbin/drlp"

	"github.com/spinvm/spinvm/guest"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

const keyValue primitives.StorageKey = "value"

// Entrypoint dispatches call.Method to init/get/add, exactly the three
// methods the original contract exposes.
func Entrypoint(env *guest.Env, call primitives.FunctionCall) ([]byte, error) {
	switch call.Method {
	case "init":
		return nil, initMethod(env)
	case "get":
		return get(env)
	case "add":
		return nil, add(env)
	default:
		return nil, spinerr.Wrapf(spinerr.ErrUnknownMethod, "counter: %q", call.Method)
	}
}

func initMethod(env *guest.Env) error {
	return guest.SetStorage(env, keyValue, uint64(0))
}

func get(env *guest.Env) ([]byte, error) {
	value, _, err := guest.GetStorage[uint64](env, keyValue)
	if err != nil {
		return nil, err
	}
	return drlp.EncodeToBytes(value)
}

func add(env *guest.Env) error {
	value, present, err := guest.GetStorage[uint64](env, keyValue)
	if err != nil {
		return err
	}
	if !present {
		value = 0
	}
	value++
	return guest.SetStorage(env, keyValue, value)
}
