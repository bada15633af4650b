package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	isatty "github.com/mattn/go-isatty"
	"github.com/qianbin/drlp"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/spinvm/spinvm/accountmap"
	"github.com/spinvm/spinvm/config"
	"github.com/spinvm/spinvm/context"
	"github.com/spinvm/spinvm/contracts"
	"github.com/spinvm/spinvm/contractvm"
	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/storage"
)

var log = ethlog.New("module", "spinvm")

var (
	version   string
	gitCommit string
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "spinvm",
		Usage:   "standalone driver for the spinvm contract execution runtime",
		Flags: []cli.Flag{
			dataDirFlag,
			contractsDirFlag,
			accountMapFlag,
			hotCacheBytesFlag,
			verbosityFlag,
		},
		Commands: []cli.Command{
			{
				Name:  "demo",
				Usage: "run the bundled token/fibonacci/cross-contract-call walkthrough",
				Flags: []cli.Flag{
					dataDirFlag,
					contractsDirFlag,
					accountMapFlag,
					hotCacheBytesFlag,
					verbosityFlag,
				},
				Action: demoAction,
			},
			{
				Name:  "run",
				Usage: "invoke a single contract method",
				Flags: []cli.Flag{
					dataDirFlag,
					contractsDirFlag,
					accountMapFlag,
					hotCacheBytesFlag,
					verbosityFlag,
					accountFlag,
					methodFlag,
					argsHexFlag,
					gasFlag,
					signerFlag,
				},
				Action: runAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	return config.Default().DataDir
}

// configFromCLI overlays flag values supplied on the command line on top
// of config.Default.
func configFromCLI(ctx *cli.Context) config.Config {
	cfg := config.Default()
	cfg.DataDir = ctx.String(dataDirFlag.Name)
	cfg.ContractsDir = ctx.String(contractsDirFlag.Name)
	cfg.AccountMapPath = ctx.String(accountMapFlag.Name)
	cfg.HotCacheBytes = ctx.Int(hotCacheBytesFlag.Name)
	cfg.Verbosity = ctx.Int(verbosityFlag.Name)
	return cfg
}

func initLogger(cfg config.Config) {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	handler := ethlog.NewGlogHandler(ethlog.StreamHandler(os.Stderr, ethlog.TerminalFormat(useColor)))
	handler.Verbosity(ethlog.Lvl(cfg.Verbosity))
	ethlog.Root().SetHandler(handler)
}

// newDriver wires a contractvm.Driver against the on-disk state dir: an
// FSStore-backed ContractStore, the embedded contract registry, and
// either the built-in static account mapping or an operator-supplied
// YAML override, exactly the seams SPEC_FULL.md's D1/D6 call out as
// pluggable.
func newDriver(cfg config.Config) (*contractvm.Driver, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	contractsDir := cfg.ResolvedContractsDir()
	if err := ensureBundledImages(contractsDir); err != nil {
		return nil, err
	}

	loader, err := contractvm.NewLoader(contractsDir, 64)
	if err != nil {
		return nil, err
	}

	backend, err := storage.NewFSStore(cfg.StorageDir())
	if err != nil {
		return nil, err
	}
	store := storage.NewContractStore(backend, cfg.HotCacheBytes)

	var resolver accountmap.Resolver
	if cfg.AccountMapPath != "" {
		resolver, err = accountmap.LoadYAMLResolver(cfg.AccountMapPath)
		if err != nil {
			return nil, err
		}
	} else {
		resolver = accountmap.NewStaticResolver()
	}

	executor := contractvm.NewRegistryExecutor(contracts.Bundled)
	return contractvm.NewDriver(loader, store, resolver, executor), nil
}

// ensureBundledImages writes a placeholder image file per bundled
// account id if one isn't already present, so a fresh data dir can
// invoke the bundled contracts without a separate "install" step. A
// real deployment would instead populate contractsDir from compiled
// guest ELFs.
func ensureBundledImages(contractsDir string) error {
	if err := os.MkdirAll(contractsDir, 0o755); err != nil {
		return err
	}
	for _, name := range []string{"counter.spin", "fibonacci.spin", "token.spin", "demo_ccc.spin"} {
		path := filepath.Join(contractsDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func invoke(driver *contractvm.Driver, account, method, signer string, args []byte, gas uint64) (primitives.ExecutionOutcome, error) {
	call := primitives.ContractCall{
		Account:     primitives.NewAccountId(account),
		Method:      method,
		Args:        args,
		AttachedGas: gas,
		Sender:      primitives.NewAccountId(signer),
		Signer:      primitives.NewAccountId(signer),
	}
	return driver.Execute(context.New(call))
}

func runAction(ctx *cli.Context) error {
	cfg := configFromCLI(ctx)
	initLogger(cfg)
	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}

	var args []byte
	if hexArgs := ctx.String(argsHexFlag.Name); hexArgs != "" {
		args, err = hex.DecodeString(hexArgs)
		if err != nil {
			return fmt.Errorf("decoding --args-hex: %w", err)
		}
	}

	outcome, err := invoke(driver, ctx.String(accountFlag.Name), ctx.String(methodFlag.Name),
		ctx.String(signerFlag.Name), args, uint64(ctx.Int(gasFlag.Name)))
	if err != nil {
		return err
	}

	log.Info("invocation committed",
		"account", ctx.String(accountFlag.Name),
		"method", ctx.String(methodFlag.Name),
		"call_hash", outcome.CallHash.String(),
		"output_hex", hex.EncodeToString(outcome.Output))
	return nil
}

func demoAction(ctx *cli.Context) error {
	cfg := configFromCLI(ctx)
	initLogger(cfg)
	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}

	ticker, initialSupply := "SPIN", uint64(100)
	log.Info("creating token", "token", "token.spin", "owner", "owner.spin", "ticker", ticker, "initial_supply", initialSupply)
	initArgs, err := drlp.EncodeToBytes(struct {
		Ticker        string
		InitialSupply *uint256.Int
	}{Ticker: ticker, InitialSupply: uint256.NewInt(initialSupply)})
	if err != nil {
		return err
	}
	if _, err := invoke(driver, "token.spin", "init", "owner.spin", initArgs, 100_000_000); err != nil {
		return fmt.Errorf("token init: %w", err)
	}

	logBalance := func(account string) uint64 {
		return mustBalanceOf(driver, account)
	}
	log.Info("balance", "address", "owner.spin", "balance", logBalance("owner.spin"))
	log.Info("balance", "address", "alice.spin", "balance", logBalance("alice.spin"))

	log.Info("transferring", "amount", 10, "from", "owner.spin", "to", "alice.spin")
	if err := mustTransfer(driver, "owner.spin", "alice.spin", 10); err != nil {
		return err
	}
	log.Info("balance", "address", "owner.spin", "balance", logBalance("owner.spin"))
	log.Info("balance", "address", "alice.spin", "balance", logBalance("alice.spin"))

	log.Info("transferring", "amount", 7, "from", "alice.spin", "to", "demo_ccc.spin")
	if err := mustTransfer(driver, "alice.spin", "demo_ccc.spin", 7); err != nil {
		return err
	}

	log.Info("invoking demo_ccc.transfer_token", "from", "demo_ccc.spin", "to", "bob.spin", "amount", 5)
	transferTokenArgs, err := drlp.EncodeToBytes(struct {
		TokenAccount string
		Recipient    string
		Amount       []byte
	}{TokenAccount: "token.spin", Recipient: "bob.spin", Amount: uint256.NewInt(5).Bytes()})
	if err != nil {
		return err
	}
	outcome, err := invoke(driver, "demo_ccc.spin", "transfer_token", "alice.spin", transferTokenArgs, 200_000_000)
	if err != nil {
		return fmt.Errorf("demo_ccc transfer_token: %w", err)
	}
	log.Info("demo_ccc.transfer_token committed", "call_hash", outcome.CallHash.String(), "cross_calls", len(outcome.CrossCallsHashes))
	log.Info("balance", "address", "bob.spin", "balance", logBalance("bob.spin"))

	log.Info("invoking demo_ccc.fibonacci_and_multiply", "n", 10, "multiplier", 3)
	fibArgs, err := drlp.EncodeToBytes(struct {
		N          uint32
		Multiplier uint64
	}{N: 10, Multiplier: 3})
	if err != nil {
		return err
	}
	fibOutcome, err := invoke(driver, "demo_ccc.spin", "fibonacci_and_multiply", "owner.spin", fibArgs, 100_000_000)
	if err != nil {
		return fmt.Errorf("demo_ccc fibonacci_and_multiply: %w", err)
	}
	var result uint64
	if err := drlp.DecodeBytes(fibOutcome.Output, &result); err != nil {
		return err
	}
	log.Info("fibonacci_and_multiply result", "result", result)

	return nil
}

func mustBalanceOf(driver *contractvm.Driver, account string) uint64 {
	argBytes, err := drlp.EncodeToBytes(account)
	if err != nil {
		log.Crit("encoding balance_of args", "err", err)
	}
	outcome, err := invoke(driver, "token.spin", "balance_of", account, argBytes, 1_000_000)
	if err != nil {
		log.Crit("balance_of", "account", account, "err", err)
	}
	return new(uint256.Int).SetBytes(outcome.Output).Uint64()
}

func mustTransfer(driver *contractvm.Driver, from, to string, amount uint64) error {
	argBytes, err := drlp.EncodeToBytes(struct {
		Recipient string
		Amount    *uint256.Int
	}{Recipient: to, Amount: uint256.NewInt(amount)})
	if err != nil {
		return err
	}
	_, err = invoke(driver, "token.spin", "transfer", from, argBytes, 1_000_000)
	return err
}
