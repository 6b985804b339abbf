package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads node configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a node config value by key. Only node-operational
// settings, never consensus constants (those live in genesis.go).
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	case "rpc.enabled", "rpc":
		cfg.RPC.Enabled = parseBool(value)
	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Port = n

	case "peg.enabled", "peg":
		cfg.Peg.Enabled = parseBool(value)
	case "peg.rpcaddr":
		cfg.Peg.RPCAddr = value
	case "peg.rpcuser":
		cfg.Peg.RPCUser = value
	case "peg.rpcpass":
		cfg.Peg.RPCPass = value
	case "peg.pollms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Peg.PollMillis = n
	case "metrics.addr":
		cfg.Peg.MetricsAddr = value

	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored.
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default node configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# duskchain node configuration
#
# This file contains NODE settings only. Consensus constants (commitment
# age bound, bundle failure gap, block/tx size limits) are fixed by the
# software and cannot be changed without a hard fork.

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.duskchain)
# datadir = ~/.duskchain

# ============================================================================
# RPC Server
# ============================================================================

rpc.enabled = true
rpc.addr = 127.0.0.1
rpc.port = ` + defaultRPCPort(network) + `

# ============================================================================
# Parent-chain adapter
# ============================================================================

peg.enabled = true
peg.rpcaddr = ` + defaultPegAddr(network) + `
# peg.rpcuser =
# peg.rpcpass =
peg.pollms = 5000

# Prometheus /metrics listen address (empty disables it)
# metrics.addr = 127.0.0.1:9100

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}

func defaultRPCPort(network NetworkType) string {
	if network == Testnet {
		return "8645"
	}
	return "8545"
}

func defaultPegAddr(network NetworkType) string {
	if network == Testnet {
		return "127.0.0.1:18332"
	}
	return "127.0.0.1:8332"
}
