// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol rules: consensus constants, fixed by the module (genesis.go),
//     not by a genesis file — every network runs the same rules.
//   - Node settings: runtime configuration, can vary per node.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies which chain a node is pointed at. It only affects
// data directory layout, the default RPC port and the parent-chain adapter
// endpoint; it carries no consensus-rule variation.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds node-specific runtime configuration.
type Config struct {
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	RPC RPCConfig
	Peg PegConfig
	Log LogConfig
}

// RPCConfig holds the client-facing RPC server settings.
type RPCConfig struct {
	Enabled bool   `conf:"rpc.enabled"`
	Addr    string `conf:"rpc.addr"`
	Port    int    `conf:"rpc.port"`
}

// PegConfig holds settings for the parent-chain adapter: where to reach
// the parent-chain node and how often to poll it for new peg-in/peg-out
// activity.
type PegConfig struct {
	Enabled    bool   `conf:"peg.enabled"`
	RPCAddr    string `conf:"peg.rpcaddr"`
	RPCUser    string `conf:"peg.rpcuser"`
	RPCPass    string `conf:"peg.rpcpass"`
	PollMillis int    `conf:"peg.pollms"`

	MetricsAddr string `conf:"metrics.addr"` // empty disables the /metrics endpoint
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.duskchain
//	macOS:   ~/Library/Application Support/Duskchain
//	Windows: %APPDATA%\Duskchain
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duskchain"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Duskchain")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Duskchain")
		}
		return filepath.Join(home, "AppData", "Roaming", "Duskchain")
	default:
		return filepath.Join(home, ".duskchain")
	}
}

// ChainDataDir returns the network-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir returns the ledger (badger) database directory.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.ChainDataDir(), "ledger")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "duskchain.conf")
}
