package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goran-ethernal/OwnerScan/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML("../../config.example.yaml")
	if err != nil {
		t.Fatalf("failed to load YAML config: %v", err)
	}

	validateConfig(t, cfg, "YAML")
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON("../../config.example.json")
	if err != nil {
		t.Fatalf("failed to load JSON config: %v", err)
	}

	validateConfig(t, cfg, "JSON")
}

func TestLoadFromTOML(t *testing.T) {
	cfg, err := LoadFromTOML("../../config.example.toml")
	if err != nil {
		t.Fatalf("failed to load TOML config: %v", err)
	}

	validateConfig(t, cfg, "TOML")
}

func TestLoadFromFile_YAML(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.yaml")
	if err != nil {
		t.Fatalf("failed to auto-load YAML config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected YAML")
}

func TestLoadFromFile_JSON(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.json")
	if err != nil {
		t.Fatalf("failed to auto-load JSON config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected JSON")
}

func TestLoadFromFile_TOML(t *testing.T) {
	cfg, err := LoadFromFile("../../config.example.toml")
	if err != nil {
		t.Fatalf("failed to auto-load TOML config: %v", err)
	}

	validateConfig(t, cfg, "auto-detected TOML")
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFromFile("config.txt")
	require.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
networks:
  ethereum:
    rpc_url: https://rpc.example.com
    start_block: 100
    end_block: 50
`), 0o600))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
	require.Contains(t, err.Error(), "networks.ethereum")
}

// validateConfig checks that the loaded config has the values of the example files
func validateConfig(t *testing.T, cfg *config.Config, format string) {
	t.Helper()

	require.Len(t, cfg.Networks, 3, "[%s] three networks expected", format)
	require.Equal(t, []string{"ethereum", "gnosis", "polygon"}, cfg.NetworkNames(), "[%s]", format)

	ethereum := cfg.Networks["ethereum"]
	require.Equal(t, "https://ethereum-rpc.publicnode.com", ethereum.RPCURL, "[%s]", format)
	require.Equal(t, "Ethereum", ethereum.DisplayName, "[%s]", format)
	require.Equal(t, uint64(2000), ethereum.Step, "[%s]", format)
	require.Equal(t, uint64(12504268), ethereum.StartBlock, "[%s]", format)
	require.True(t, ethereum.EndBlock.Latest, "[%s] ethereum.end_block should be latest", format)

	polygon := cfg.Networks["polygon"]
	require.True(t, polygon.ExtendedHeaderSupport, "[%s]", format)
	require.Equal(t, uint64(1000), polygon.Step, "[%s]", format)
	require.NotNil(t, polygon.EndBlock, "[%s] end_block default should be applied", format)
	require.True(t, polygon.EndBlock.Latest, "[%s]", format)

	gnosis := cfg.Networks["gnosis"]
	require.Equal(t, uint64(config.DefaultStep), gnosis.Step, "[%s] step default should be applied", format)
	require.False(t, gnosis.EndBlock.Latest, "[%s]", format)
	require.Equal(t, uint64(16500000), gnosis.EndBlock.Number, "[%s]", format)

	require.Equal(t, "./owners.db", cfg.DB.Path, "[%s]", format)
	require.NotZero(t, cfg.DB.BusyTimeout, "[%s] db.busy_timeout should have default value", format)

	require.NotNil(t, cfg.Retry, "[%s]", format)
	require.Equal(t, 3, cfg.Retry.MaxAttempts, "[%s]", format)

	require.NotNil(t, cfg.Logging, "[%s]", format)
	require.Equal(t, "debug", cfg.Logging.GetComponentLevel("scanner"), "[%s]", format)
	require.Equal(t, "info", cfg.Logging.GetComponentLevel("store"), "[%s]", format)

	require.NotNil(t, cfg.Metrics, "[%s]", format)
	require.True(t, cfg.Metrics.Enabled, "[%s]", format)

	require.NotNil(t, cfg.API, "[%s]", format)
	require.Equal(t, ":8080", cfg.API.ListenAddress, "[%s]", format)
	require.NotZero(t, cfg.API.ReadTimeout.Duration, "[%s] api.read_timeout default should be applied", format)
}
