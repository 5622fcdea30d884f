package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dbftcore/config"
)

func TestDefaultConsensusConfig(t *testing.T) {
	cfg := config.DefaultConsensusConfig()
	require.Equal(t, "dbft-testnet", cfg.ChainID)
	require.Equal(t, 15*time.Second, cfg.ViewChangeTimeout)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbft.toml")
	contents := `
chain_id = "dbft-mainnet"
wallet_file = "/etc/dbft/wallet.json"
view_change_timeout = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "dbft-mainnet", cfg.ChainID)
	require.Equal(t, "/etc/dbft/wallet.json", cfg.WalletFile)
	require.Equal(t, 30*time.Second, cfg.ViewChangeTimeout)
	require.Equal(t, "data", cfg.DBDir, "fields omitted from the file keep their default")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
