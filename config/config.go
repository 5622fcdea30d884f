// Package config loads the surrounding service's node configuration —
// wallet path, store path, chain identity, view-change timing — the way
// chainbft_demo/cmd wires github.com/tendermint/tendermint/config and
// github.com/spf13/viper together, generalized to dBFT's needs. The
// Context itself takes no CLI flags or environment variables (§6): this
// package is what a cmd/dbft-tool binary uses to build the collaborators
// (wallet, store, ledger) a Context is constructed with.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConsensusConfig holds every setting the surrounding dBFT service needs
// outside the core itself, mirroring the shape of tendermint's
// config.ConsensusConfig but scoped to this module's concerns.
type ConsensusConfig struct {
	// ChainID identifies the network the node participates in.
	ChainID string `mapstructure:"chain_id"`

	// WalletFile points at the JSON key file wallet.FileWallet loads.
	WalletFile string `mapstructure:"wallet_file"`

	// DBDir is the directory the checkpoint's goleveldb store lives in.
	DBDir string `mapstructure:"db_dir"`

	// DBName is the goleveldb database name within DBDir.
	DBName string `mapstructure:"db_name"`

	// ViewChangeTimeout bounds how long the surrounding service waits
	// for a view to reach quorum before calling MakeChangeView; it lives
	// entirely outside the Context (§5: "view-change timers live in the
	// surrounding service").
	ViewChangeTimeout time.Duration `mapstructure:"view_change_timeout"`
}

// DefaultConsensusConfig mirrors the teacher's DefaultConsensusConfig
// constructor pattern: sane defaults a fresh node can run with before
// any file-based override is applied.
func DefaultConsensusConfig() *ConsensusConfig {
	return &ConsensusConfig{
		ChainID:           "dbft-testnet",
		WalletFile:        "config/wallet.json",
		DBDir:             "data",
		DBName:            "dbft",
		ViewChangeTimeout: 15 * time.Second,
	}
}

// Load reads a ConsensusConfig from path (TOML/YAML/JSON, by extension)
// via viper, falling back to DefaultConsensusConfig for any field the
// file omits.
func Load(path string) (*ConsensusConfig, error) {
	cfg := DefaultConsensusConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("chain_id", cfg.ChainID)
	v.SetDefault("wallet_file", cfg.WalletFile)
	v.SetDefault("db_dir", cfg.DBDir)
	v.SetDefault("db_name", cfg.DBName)
	v.SetDefault("view_change_timeout", cfg.ViewChangeTimeout)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read consensus config")
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal consensus config")
	}
	return cfg, nil
}
