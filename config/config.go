// Package config collects the handful of knobs cmd/spinvm exposes into a
// single typed value, so the wiring code in main.go takes one argument
// instead of threading *cli.Context through every constructor.
package config

import (
	"os"
	"path/filepath"
)

// Config is the resolved set of options a spinvm invocation runs with.
type Config struct {
	DataDir       string
	ContractsDir  string
	AccountMapPath string
	HotCacheBytes int
	DefaultGas    uint64
	Verbosity     int
}

// Default returns the configuration spinvm runs with when no flags
// override it.
func Default() Config {
	return Config{
		DataDir:       defaultDataDir(),
		HotCacheBytes: 4 << 20,
		DefaultGas:    1_000_000,
		Verbosity:     3,
	}
}

// StorageDir is the directory the filesystem/LevelDB content-addressed
// store persists contract values under.
func (c Config) StorageDir() string {
	return filepath.Join(c.DataDir, "storage")
}

// ResolvedContractsDir is c.ContractsDir if set, else a default location
// inside DataDir.
func (c Config) ResolvedContractsDir() string {
	if c.ContractsDir != "" {
		return c.ContractsDir
	}
	return filepath.Join(c.DataDir, "contracts")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spinvm"
	}
	return filepath.Join(home, ".spinvm")
}
