package config

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validConfig() *Config {
	return &Config{
		Networks: map[string]NetworkConfig{
			"ethereum": {RPCURL: "https://rpc.example.com"},
		},
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	network := cfg.Networks["ethereum"]
	require.Equal(t, "ethereum", network.DisplayName)
	require.Equal(t, uint64(DefaultStep), network.Step)
	require.Equal(t, uint64(0), network.StartBlock)
	require.False(t, network.ExtendedHeaderSupport)
	require.NotNil(t, network.EndBlock)
	require.True(t, network.EndBlock.Latest)

	require.Equal(t, DefaultDBPath, cfg.DB.Path)
	require.Equal(t, "WAL", cfg.DB.JournalMode)
	require.Equal(t, "NORMAL", cfg.DB.Synchronous)
	require.Equal(t, 5000, cfg.DB.BusyTimeout)

	require.NotNil(t, cfg.Logging)
	require.Equal(t, "info", cfg.Logging.GetDefaultLevel())
	require.Nil(t, cfg.Retry)
	require.Nil(t, cfg.Metrics)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name: "no networks",
			mutate: func(cfg *Config) {
				cfg.Networks = nil
			},
			wantErr: "at least one network",
		},
		{
			name: "missing rpc url",
			mutate: func(cfg *Config) {
				cfg.Networks["ethereum"] = NetworkConfig{}
			},
			wantErr: "rpc_url is required",
		},
		{
			name: "unsupported rpc scheme",
			mutate: func(cfg *Config) {
				cfg.Networks["ethereum"] = NetworkConfig{RPCURL: "ftp://rpc.example.com"}
			},
			wantErr: "must be an http(s) or ws(s) URL",
		},
		{
			name: "websocket rpc url",
			mutate: func(cfg *Config) {
				cfg.Networks["ethereum"] = NetworkConfig{RPCURL: "wss://rpc.example.com/ws"}
			},
		},
		{
			name: "end block before start block",
			mutate: func(cfg *Config) {
				cfg.Networks["ethereum"] = NetworkConfig{
					RPCURL:     "https://rpc.example.com",
					StartBlock: 100,
					EndBlock:   &BlockTag{Number: 99},
				}
			},
			wantErr: "must not be lower than start_block",
		},
		{
			name: "end block equal to start block",
			mutate: func(cfg *Config) {
				cfg.Networks["ethereum"] = NetworkConfig{
					RPCURL:     "https://rpc.example.com",
					StartBlock: 100,
					EndBlock:   &BlockTag{Number: 100},
				}
			},
		},
		{
			name: "invalid journal mode",
			mutate: func(cfg *Config) {
				cfg.DB.JournalMode = "FAST"
			},
			wantErr: "db: journal_mode",
		},
		{
			name: "unknown logging component",
			mutate: func(cfg *Config) {
				cfg.Logging = &LoggingConfig{ComponentLevels: map[string]string{"downloader": "debug"}}
			},
			wantErr: "unknown component",
		},
		{
			name: "invalid metrics path",
			mutate: func(cfg *Config) {
				cfg.Metrics = &MetricsConfig{Enabled: true, ListenAddress: ":9090", Path: "metrics"}
			},
			wantErr: "path must start with '/'",
		},
		{
			name: "invalid retry multiplier",
			mutate: func(cfg *Config) {
				cfg.Retry = &RetryConfig{BackoffMultiplier: 0.5}
			},
			wantErr: "backoff_multiplier",
		},
		{
			name: "invalid maintenance mode",
			mutate: func(cfg *Config) {
				cfg.Maintenance = &MaintenanceConfig{WALCheckpointMode: "NONE"}
			},
			wantErr: "wal_checkpoint_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			cfg.ApplyDefaults()

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseBlockTag(t *testing.T) {
	tests := []struct {
		input   string
		want    BlockTag
		wantErr bool
	}{
		{input: "latest", want: BlockTag{Latest: true}},
		{input: "LATEST", want: BlockTag{Latest: true}},
		{input: "12345", want: BlockTag{Number: 12345}},
		{input: "0x10", want: BlockTag{Number: 16}},
		{input: " 42 ", want: BlockTag{Number: 42}},
		{input: "", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBlockTag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBlockTag_Unmarshal(t *testing.T) {
	type holder struct {
		EndBlock *BlockTag `yaml:"end_block" json:"end_block" toml:"end_block"`
	}

	t.Run("YAML", func(t *testing.T) {
		var number, latest holder
		require.NoError(t, yaml.Unmarshal([]byte("end_block: 500\n"), &number))
		require.NoError(t, yaml.Unmarshal([]byte("end_block: latest\n"), &latest))
		require.Equal(t, BlockTag{Number: 500}, *number.EndBlock)
		require.True(t, latest.EndBlock.Latest)
	})

	t.Run("JSON", func(t *testing.T) {
		var number, latest holder
		require.NoError(t, json.Unmarshal([]byte(`{"end_block":500}`), &number))
		require.NoError(t, json.Unmarshal([]byte(`{"end_block":"latest"}`), &latest))
		require.Equal(t, BlockTag{Number: 500}, *number.EndBlock)
		require.True(t, latest.EndBlock.Latest)

		var invalid holder
		require.Error(t, json.Unmarshal([]byte(`{"end_block":true}`), &invalid))
	})

	t.Run("TOML", func(t *testing.T) {
		var number, latest holder
		_, err := toml.Decode("end_block = 500\n", &number)
		require.NoError(t, err)
		_, err = toml.Decode("end_block = \"latest\"\n", &latest)
		require.NoError(t, err)
		require.Equal(t, BlockTag{Number: 500}, *number.EndBlock)
		require.True(t, latest.EndBlock.Latest)
	})
}

func TestNetworkNames_Sorted(t *testing.T) {
	cfg := &Config{Networks: map[string]NetworkConfig{
		"polygon":  {},
		"arbitrum": {},
		"ethereum": {},
	}}

	require.Equal(t, []string{"arbitrum", "ethereum", "polygon"}, cfg.NetworkNames())
}
