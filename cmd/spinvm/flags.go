package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for contract storage and account mappings",
	}
	contractsDirFlag = cli.StringFlag{
		Name:  "contracts-dir",
		Value: "",
		Usage: "directory of compiled contract images (defaults to <data-dir>/contracts)",
	}
	accountMapFlag = cli.StringFlag{
		Name:  "account-map",
		Value: "",
		Usage: "optional YAML file mapping account ids to EVM addresses (defaults to the built-in static mapping)",
	}
	hotCacheBytesFlag = cli.IntFlag{
		Name:  "hot-cache-bytes",
		Value: 4 << 20,
		Usage: "size in bytes of the in-memory hot value cache fronting contract storage",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace)",
	}

	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account id to invoke",
	}
	methodFlag = cli.StringFlag{
		Name:  "method",
		Usage: "method name to invoke",
	}
	argsHexFlag = cli.StringFlag{
		Name:  "args-hex",
		Usage: "hex-encoded, already drlp-canonical-encoded call arguments",
	}
	gasFlag = cli.IntFlag{
		Name:  "gas",
		Value: 1_000_000,
		Usage: "gas attached to the top-level call",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Value: "operator.spin",
		Usage: "signer account id for the top-level call",
	}
)
