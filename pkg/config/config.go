/*
Package config contains per-chain profiles for the collection manager.

A profile bundles every external endpoint the tool talks to for one
Antelope chain (RPC API, AtomicAssets indexer, signer daemon, randomness
service) together with the pending-queue database settings. Profiles are
immutable values passed into components at construction time, there is no
ambient global configuration.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version string

// Config is a single chain profile.
type Config struct {
	// ChainID is the hex-encoded identifier of the target chain, it is
	// passed through to the signer daemon verbatim.
	ChainID string `yaml:"ChainID"`
	// ChainAPI is the chain RPC endpoint (leap /v1/chain API).
	ChainAPI string `yaml:"ChainAPI"`
	// AtomicAPI is the AtomicAssets indexer endpoint.
	AtomicAPI string `yaml:"AtomicAPI"`
	// SignerAPI is the wallet/signer daemon endpoint used to sign and
	// broadcast transactions.
	SignerAPI string `yaml:"SignerAPI"`
	// RandomAPI is the randomness service used for airdrop shuffle seeds.
	RandomAPI string `yaml:"RandomAPI"`
	// IPFSGateway is used to build preview URLs for media attributes.
	IPFSGateway string `yaml:"IPFSGateway"`

	DB       DBConfiguration `yaml:"DB"`
	LogLevel string          `yaml:"LogLevel"`
	LogPath  string          `yaml:"LogPath"`
}

// DBConfiguration describes the pending-batch store backend.
type DBConfiguration struct {
	Type string `yaml:"Type"`
	Path string `yaml:"Path"`
}

// Load attempts to load a chain profile named chain from the given
// directory (chain.<name>.yml).
func Load(path string, chain string) (Config, error) {
	configPath := filepath.Join(path, fmt.Sprintf("chain.%s.yml", chain))
	return LoadFile(configPath)
}

// LoadFile loads a chain profile from the given file.
func LoadFile(configPath string) (Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Config{
		DB: DBConfiguration{
			Type: "boltdb",
			Path: "./pending.db",
		},
	}
	err = yaml.Unmarshal(configData, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks that the profile names every endpoint the tool needs.
func (c Config) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("invalid config: ChainID is missing")
	}
	if c.ChainAPI == "" {
		return fmt.Errorf("invalid config: ChainAPI is missing")
	}
	if c.AtomicAPI == "" {
		return fmt.Errorf("invalid config: AtomicAPI is missing")
	}
	if c.SignerAPI == "" {
		return fmt.Errorf("invalid config: SignerAPI is missing")
	}
	return nil
}
