// Package config loads run configuration from YAML or JSON, mirroring the
// structure a run needs: account, data, strategy, cost models, risk policy,
// journal, and logging.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"papertrade/cost"
	"papertrade/logging"
	"papertrade/risk"
)

type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Costs    CostConfig     `json:"costs" yaml:"costs"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  logging.Config `json:"logging" yaml:"logging"`
}

type AccountConfig struct {
	ID   string  `json:"id" yaml:"id"`
	Cash float64 `json:"cash" yaml:"cash"`
}

type DataConfig struct {
	Bars      string `json:"bars" yaml:"bars"` // CSV bar file
	Benchmark string `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	From      string `json:"from,omitempty" yaml:"from,omitempty"` // YYYY-MM-DD
	To        string `json:"to,omitempty" yaml:"to,omitempty"`
}

type StrategyConfig struct {
	Name   string  `json:"name" yaml:"name"` // "sma-cross" or "noop"
	Fast   int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow   int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	Shares float64 `json:"shares" yaml:"shares"`
}

type CostConfig struct {
	Slippage   SlippageConfig   `json:"slippage" yaml:"slippage"`
	Commission CommissionConfig `json:"commission" yaml:"commission"`
	Impact     ImpactConfig     `json:"impact" yaml:"impact"`
}

type SlippageConfig struct {
	Model        string  `json:"model" yaml:"model"` // "none", "fixed", "volume", "bidask"
	Rate         float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	VolumeFactor float64 `json:"volume_factor,omitempty" yaml:"volume_factor,omitempty"`
	SpreadFactor float64 `json:"spread_factor,omitempty" yaml:"spread_factor,omitempty"`
}

type CommissionConfig struct {
	Model string      `json:"model" yaml:"model"` // "none", "fixed", "tiered"
	Rate  float64     `json:"rate,omitempty" yaml:"rate,omitempty"`
	Min   float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Tiers []cost.Tier `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

type ImpactConfig struct {
	Factor float64 `json:"factor,omitempty" yaml:"factor,omitempty"` // 0 disables
}

type RiskConfig struct {
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
	StopLossPct    float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct  float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
}

type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile    string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SnapshotsFile string `json:"snapshots_file,omitempty" yaml:"snapshots_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes configuration as YAML (.yaml/.yml) or JSON.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Account.Cash <= 0 {
		return fmt.Errorf("account.cash must be positive")
	}
	if c.Data.Bars == "" {
		return fmt.Errorf("data.bars is required")
	}
	for _, d := range []string{c.Data.From, c.Data.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("bad date %q: %w", d, err)
		}
	}
	switch c.Strategy.Name {
	case "sma-cross":
		if c.Strategy.Fast <= 0 || c.Strategy.Slow <= 0 || c.Strategy.Fast >= c.Strategy.Slow {
			return fmt.Errorf("strategy: need 0 < fast < slow")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown strategy: %s", c.Strategy.Name)
	}
	if c.Strategy.Shares <= 0 {
		return fmt.Errorf("strategy.shares must be positive")
	}
	// Zero means the corresponding check is disabled; negative is a mistake.
	if c.Risk.MaxPositionPct < 0 || c.Risk.MaxDrawdownPct < 0 ||
		c.Risk.StopLossPct < 0 || c.Risk.TakeProfitPct < 0 {
		return fmt.Errorf("risk percentages must not be negative")
	}
	switch c.Costs.Slippage.Model {
	case "", "none", "fixed", "volume", "bidask":
	default:
		return fmt.Errorf("unknown slippage model: %s", c.Costs.Slippage.Model)
	}
	switch c.Costs.Commission.Model {
	case "", "none", "fixed":
	case "tiered":
		if len(c.Costs.Commission.Tiers) == 0 {
			return fmt.Errorf("tiered commission needs tiers")
		}
		prev := 0.0
		for _, t := range c.Costs.Commission.Tiers {
			if t.Threshold <= prev {
				return fmt.Errorf("commission tiers must have ascending thresholds")
			}
			prev = t.Threshold
		}
	default:
		return fmt.Errorf("unknown commission model: %s", c.Costs.Commission.Model)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.SnapshotsFile == "" {
			return fmt.Errorf("journal trades_file and snapshots_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// BuildSlippage constructs the configured slippage model.
func (c CostConfig) BuildSlippage() cost.SlippageModel {
	switch c.Slippage.Model {
	case "fixed":
		return cost.FixedSlippage{Rate: c.Slippage.Rate}
	case "volume":
		return cost.VolumeSlippage{BaseRate: c.Slippage.Rate, VolumeFactor: c.Slippage.VolumeFactor}
	case "bidask":
		return cost.BidAskSlippage{SpreadFactor: c.Slippage.SpreadFactor}
	}
	return cost.NoSlippage{}
}

// BuildCommission constructs the configured commission model.
func (c CostConfig) BuildCommission() cost.CommissionModel {
	switch c.Commission.Model {
	case "fixed":
		return cost.FixedCommission{Rate: c.Commission.Rate, Min: c.Commission.Min}
	case "tiered":
		return cost.TieredCommission{Tiers: c.Commission.Tiers, Min: c.Commission.Min}
	}
	return cost.NoCommission{}
}

// BuildImpact constructs the configured impact model.
func (c CostConfig) BuildImpact() cost.ImpactModel {
	if c.Impact.Factor > 0 {
		return cost.SqrtImpact{Factor: c.Impact.Factor}
	}
	return cost.NoImpact{}
}

// Policy converts the risk section into a risk.Policy.
func (c RiskConfig) Policy() risk.Policy {
	return risk.Policy{
		MaxPositionPct: c.MaxPositionPct,
		MaxDrawdownPct: c.MaxDrawdownPct,
		StopLossPct:    c.StopLossPct,
		TakeProfitPct:  c.TakeProfitPct,
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{ID: "SIM-001", Cash: 100000},
		Data:    DataConfig{Bars: "./bars.csv"},
		Strategy: StrategyConfig{
			Name:   "sma-cross",
			Fast:   10,
			Slow:   30,
			Shares: 100,
		},
		Costs: CostConfig{
			Slippage:   SlippageConfig{Model: "fixed", Rate: 0.0005},
			Commission: CommissionConfig{Model: "fixed", Rate: 0.0003, Min: 5},
		},
		Risk: RiskConfig{
			MaxPositionPct: 0.20,
			MaxDrawdownPct: 0.20,
			StopLossPct:    0.05,
			TakeProfitPct:  0.15,
		},
		Journal: JournalConfig{Type: "none"},
		Logging: logging.Config{Level: "info", Format: "text"},
	}
}
