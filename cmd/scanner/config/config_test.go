package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
streamUrl: ws://localhost:8546
baseToken: 1
maxHops: 3
workers: 4
minLiquidity: "1000000"
minNetProfit: "100"
perHopFee: "10"
maxInput: "500000000000"
tokensFile: tokens.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8546", cfg.StreamURL)
	assert.Equal(t, uint64(1), cfg.BaseToken)
	assert.Equal(t, 3, cfg.MaxHops)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "tokens.json", cfg.TokensFile)

	assert.Equal(t, int64(100), cfg.Amount(cfg.MinNetProfit).Int64())
	assert.Equal(t, int64(10), cfg.Amount(cfg.PerHopFee).Int64())
	assert.Equal(t, "500000000000", cfg.Amount(cfg.MaxInput).String())
	require.NotNil(t, cfg.MinLiquidityAmount())
	assert.Equal(t, int64(1_000_000), cfg.MinLiquidityAmount().Int64())
}

func TestLoadConfig_OptionalMinLiquidity(t *testing.T) {
	path := writeConfig(t, `
streamUrl: ws://localhost:8546
baseToken: 1
maxHops: 3
minNetProfit: "100"
perHopFee: "10"
maxInput: "1000000"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.MinLiquidityAmount())
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"missing streamUrl",
			"maxHops: 3\nminNetProfit: \"1\"\nperHopFee: \"1\"\nmaxInput: \"100\"\n",
		},
		{
			"maxHops too small",
			"streamUrl: ws://x\nmaxHops: 1\nminNetProfit: \"1\"\nperHopFee: \"1\"\nmaxInput: \"100\"\n",
		},
		{
			"non-integer amount",
			"streamUrl: ws://x\nmaxHops: 3\nminNetProfit: \"1.5\"\nperHopFee: \"1\"\nmaxInput: \"100\"\n",
		},
		{
			"missing amount",
			"streamUrl: ws://x\nmaxHops: 3\nminNetProfit: \"1\"\nperHopFee: \"1\"\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
