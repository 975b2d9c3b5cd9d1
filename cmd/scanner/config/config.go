package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"
)

// ScannerConfig is the daemon's YAML-backed configuration.
type ScannerConfig struct {
	// StreamURL is the websocket endpoint of the pool-discovery service.
	StreamURL string `yaml:"streamUrl"`

	BaseToken uint64 `yaml:"baseToken"`
	MaxHops   int    `yaml:"maxHops"`
	Workers   int    `yaml:"workers"`

	// Big-integer amounts arrive as decimal strings so they survive YAML
	// without float truncation.
	MinLiquidity string `yaml:"minLiquidity"`
	MinNetProfit string `yaml:"minNetProfit"`
	PerHopFee    string `yaml:"perHopFee"`
	MaxInput     string `yaml:"maxInput"`

	// TokensFile optionally points at a JSON token registry for path labels.
	TokensFile string `yaml:"tokensFile"`
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (*ScannerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ScannerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ScannerConfig) validate() error {
	if c.StreamURL == "" {
		return errors.New("config: streamUrl is required")
	}
	if c.MaxHops < 2 {
		return errors.New("config: maxHops must be at least 2")
	}
	for name, field := range map[string]string{
		"minNetProfit": c.MinNetProfit,
		"perHopFee":    c.PerHopFee,
		"maxInput":     c.MaxInput,
	} {
		if _, err := parseAmount(field); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	if c.MinLiquidity != "" {
		if _, err := parseAmount(c.MinLiquidity); err != nil {
			return fmt.Errorf("config: minLiquidity: %w", err)
		}
	}
	return nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("amount is required")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer: %q", s)
	}
	return n, nil
}

// Amount parses one of the validated decimal-string fields. It panics on
// malformed input, which validate has already ruled out.
func (c *ScannerConfig) Amount(s string) *big.Int {
	n, err := parseAmount(s)
	if err != nil {
		panic(err)
	}
	return n
}

// MinLiquidityAmount returns the liquidity floor, or nil when unset.
func (c *ScannerConfig) MinLiquidityAmount() *big.Int {
	if c.MinLiquidity == "" {
		return nil
	}
	return c.Amount(c.MinLiquidity)
}
