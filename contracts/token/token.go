// Package token is a bundled example contract: a minimal fungible token
// with mint/burn/transfer/balance_of, a Go port of
// example_contracts/token from the original prototype. Balances are
// held one per storage key rather than inside a single serialized map,
// so each transfer only touches the two keys it actually changes.
package token

import (
	"github.com/holiman/uint256"
	"github.com/qianbin/drlp"

	"github.com/spinvm/spinvm/guest"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

const (
	keyTicker      primitives.StorageKey = "ticker"
	keyOwner       primitives.StorageKey = "owner"
	keyTotalSupply primitives.StorageKey = "total_supply"
)

func balanceKey(account primitives.AccountId) primitives.StorageKey {
	return primitives.StorageKey("balance:" + account.String())
}

type initArgs struct {
	Ticker        string
	InitialSupply *uint256.Int
}

type transferArgs struct {
	Recipient string
	Amount    *uint256.Int
}

type ownerArgs struct {
	Owner string
}

// Entrypoint dispatches call.Method to the matching token operation,
// mirroring the original prototype's entrypoint match on method name.
func Entrypoint(env *guest.Env, call primitives.FunctionCall) ([]byte, error) {
	switch call.Method {
	case "init":
		return nil, initMethod(env, call.Args)
	case "mint":
		return nil, mint(env, call.Args)
	case "burn":
		return nil, burn(env, call.Args)
	case "transfer":
		return nil, transfer(env, call.Args)
	case "balance_of":
		return balanceOf(env, call.Args)
	case "set_owner":
		return nil, setOwner(env, call.Args)
	case "get_owner":
		return getOwner(env)
	default:
		return nil, spinerr.Wrapf(spinerr.ErrUnknownMethod, "token: %q", call.Method)
	}
}

func getBalance(env *guest.Env, account primitives.AccountId) (*uint256.Int, error) {
	raw, present, err := env.GetStorageBytes(balanceKey(account))
	if err != nil {
		return nil, err
	}
	if !present {
		return uint256.NewInt(0), nil
	}
	return new(uint256.Int).SetBytes(raw), nil
}

func setBalance(env *guest.Env, account primitives.AccountId, balance *uint256.Int) {
	b := balance.Bytes()
	env.SetStorageBytes(balanceKey(account), b)
}

func initMethod(env *guest.Env, argBytes []byte) error {
	var args initArgs
	if err := drlp.DecodeBytes(argBytes, &args); err != nil {
		return spinerr.Wrap(err, "token.init: decoding args")
	}

	caller, err := env.Caller()
	if err != nil {
		return err
	}

	env.SetStorageBytes(keyTicker, []byte(args.Ticker))
	env.SetStorageBytes(keyOwner, []byte(caller.String()))
	env.SetStorageBytes(keyTotalSupply, args.InitialSupply.Bytes())
	setBalance(env, caller, args.InitialSupply)
	return nil
}

func mint(env *guest.Env, argBytes []byte) error {
	var amount uint256.Int
	if err := drlp.DecodeBytes(argBytes, &amount); err != nil {
		return spinerr.Wrap(err, "token.mint: decoding args")
	}

	owner, err := requireOwner(env)
	if err != nil {
		return err
	}

	supplyRaw, _, err := env.GetStorageBytes(keyTotalSupply)
	if err != nil {
		return err
	}
	supply := new(uint256.Int).SetBytes(supplyRaw)
	supply.Add(supply, &amount)
	env.SetStorageBytes(keyTotalSupply, supply.Bytes())

	balance, err := getBalance(env, owner)
	if err != nil {
		return err
	}
	balance.Add(balance, &amount)
	setBalance(env, owner, balance)
	return nil
}

func burn(env *guest.Env, argBytes []byte) error {
	var amount uint256.Int
	if err := drlp.DecodeBytes(argBytes, &amount); err != nil {
		return spinerr.Wrap(err, "token.burn: decoding args")
	}

	caller, err := env.Caller()
	if err != nil {
		return err
	}

	balance, err := getBalance(env, caller)
	if err != nil {
		return err
	}
	if balance.Lt(&amount) {
		return spinerr.Wrap(spinerr.ErrMalformedRequest, "token.burn: not enough tokens to burn")
	}
	balance.Sub(balance, &amount)
	setBalance(env, caller, balance)

	supplyRaw, _, err := env.GetStorageBytes(keyTotalSupply)
	if err != nil {
		return err
	}
	supply := new(uint256.Int).SetBytes(supplyRaw)
	supply.Sub(supply, &amount)
	env.SetStorageBytes(keyTotalSupply, supply.Bytes())
	return nil
}

func transfer(env *guest.Env, argBytes []byte) error {
	var args transferArgs
	if err := drlp.DecodeBytes(argBytes, &args); err != nil {
		return spinerr.Wrap(err, "token.transfer: decoding args")
	}
	recipient := primitives.NewAccountId(args.Recipient)

	caller, err := env.Caller()
	if err != nil {
		return err
	}

	senderBalance, err := getBalance(env, caller)
	if err != nil {
		return err
	}
	if senderBalance.Lt(args.Amount) {
		return spinerr.Wrap(spinerr.ErrMalformedRequest, "token.transfer: not enough tokens to transfer")
	}
	senderBalance.Sub(senderBalance, args.Amount)
	setBalance(env, caller, senderBalance)

	recipientBalance, err := getBalance(env, recipient)
	if err != nil {
		return err
	}
	recipientBalance.Add(recipientBalance, args.Amount)
	setBalance(env, recipient, recipientBalance)
	return nil
}

func balanceOf(env *guest.Env, argBytes []byte) ([]byte, error) {
	var account string
	if err := drlp.DecodeBytes(argBytes, &account); err != nil {
		return nil, spinerr.Wrap(err, "token.balance_of: decoding args")
	}
	balance, err := getBalance(env, primitives.NewAccountId(account))
	if err != nil {
		return nil, err
	}
	return balance.Bytes(), nil
}

func setOwner(env *guest.Env, argBytes []byte) error {
	var args ownerArgs
	if err := drlp.DecodeBytes(argBytes, &args); err != nil {
		return spinerr.Wrap(err, "token.set_owner: decoding args")
	}
	if _, err := requireOwner(env); err != nil {
		return err
	}
	env.SetStorageBytes(keyOwner, []byte(args.Owner))
	return nil
}

func getOwner(env *guest.Env) ([]byte, error) {
	raw, _, err := env.GetStorageBytes(keyOwner)
	return raw, err
}

func requireOwner(env *guest.Env) (primitives.AccountId, error) {
	ownerRaw, _, err := env.GetStorageBytes(keyOwner)
	if err != nil {
		return "", err
	}
	caller, err := env.Caller()
	if err != nil {
		return "", err
	}
	if string(ownerRaw) != caller.String() {
		return "", spinerr.Wrap(spinerr.ErrMalformedRequest, "only the owner may perform this operation")
	}
	return caller, nil
}
