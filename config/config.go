package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/dcasim/dca"
	"github.com/rustyeddy/dcasim/portfolio"
)

// Config is the complete run configuration: data window and source,
// portfolio capital settings, the strategy defaults, and the instrument
// list with per-instrument overrides.
type Config struct {
	Run         RunConfig          `json:"run" yaml:"run"`
	Data        DataConfig         `json:"data" yaml:"data"`
	Portfolio   PortfolioConfig    `json:"portfolio" yaml:"portfolio"`
	Strategy    StrategyConfig     `json:"strategy" yaml:"strategy"`
	Instruments []InstrumentConfig `json:"instruments" yaml:"instruments"`
	Journal     JournalConfig      `json:"journal" yaml:"journal"`
}

// RunConfig contains run-wide settings.
type RunConfig struct {
	Start        string  `json:"start" yaml:"start"` // 2006-01-02
	End          string  `json:"end" yaml:"end"`
	RiskFreePct  float64 `json:"risk_free_pct,omitempty" yaml:"risk_free_pct,omitempty"`
	LogLevel     string  `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	BenchmarkSym string  `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// StartEnd parses the run window.
func (r RunConfig) StartEnd() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.start: %w", err)
	}
	end, err := time.Parse("2006-01-02", r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.end: %w", err)
	}
	return start, end, nil
}

// DataConfig selects where price history comes from.
type DataConfig struct {
	Source   string `json:"source" yaml:"source"` // "yahoo" or "csv"
	CSVDir   string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
}

// PortfolioConfig contains capital pool parameters.
type PortfolioConfig struct {
	TotalCapital   float64 `json:"total_capital" yaml:"total_capital"`
	MarginPct      float64 `json:"margin_pct,omitempty" yaml:"margin_pct,omitempty"`
	CashYieldPct   float64 `json:"cash_yield_pct,omitempty" yaml:"cash_yield_pct,omitempty"`
	BetaAllocation bool    `json:"beta_allocation,omitempty" yaml:"beta_allocation,omitempty"`
	BetaSourceURL  string  `json:"beta_source_url,omitempty" yaml:"beta_source_url,omitempty"`
}

// StrategyConfig contains the strategy defaults applied to every
// instrument unless overridden.
type StrategyConfig struct {
	LotSize   float64 `json:"lot_size" yaml:"lot_size"`
	MaxLots   int     `json:"max_lots" yaml:"max_lots"`
	GridPct   float64 `json:"grid_pct" yaml:"grid_pct"`
	ProfitPct float64 `json:"profit_pct" yaml:"profit_pct"`

	BuyActivationPct  float64 `json:"buy_activation_pct" yaml:"buy_activation_pct"`
	SellActivationPct float64 `json:"sell_activation_pct" yaml:"sell_activation_pct"`
	ReboundPct        float64 `json:"rebound_pct" yaml:"rebound_pct"`
	PullbackPct       float64 `json:"pullback_pct" yaml:"pullback_pct"`

	GridIncremental    bool    `json:"grid_incremental,omitempty" yaml:"grid_incremental,omitempty"`
	GridIncrementPct   float64 `json:"grid_increment_pct,omitempty" yaml:"grid_increment_pct,omitempty"`
	ProfitIncremental  bool    `json:"profit_incremental,omitempty" yaml:"profit_incremental,omitempty"`
	ProfitIncrementPct float64 `json:"profit_increment_pct,omitempty" yaml:"profit_increment_pct,omitempty"`

	MaxSellLots int    `json:"max_sell_lots" yaml:"max_sell_lots"`
	OrderType   string `json:"order_type,omitempty" yaml:"order_type,omitempty"` // "limit" or "market"

	Adaptive        bool    `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
	Momentum        bool    `json:"momentum,omitempty" yaml:"momentum,omitempty"`
	WinThresholdPct float64 `json:"win_threshold_pct,omitempty" yaml:"win_threshold_pct,omitempty"`

	Conservative *ProfileConfig `json:"conservative,omitempty" yaml:"conservative,omitempty"`
	Aggressive   *ProfileConfig `json:"aggressive,omitempty" yaml:"aggressive,omitempty"`
}

// ProfileConfig overrides the trailing parameters wholesale when the
// adaptive overlay switches profiles.
type ProfileConfig struct {
	BuyActivationPct  float64 `json:"buy_activation_pct" yaml:"buy_activation_pct"`
	SellActivationPct float64 `json:"sell_activation_pct" yaml:"sell_activation_pct"`
	ReboundPct        float64 `json:"rebound_pct" yaml:"rebound_pct"`
	PullbackPct       float64 `json:"pullback_pct" yaml:"pullback_pct"`
	ProfitPct         float64 `json:"profit_pct" yaml:"profit_pct"`
}

// InstrumentConfig names one instrument in the run. Pointer fields, when
// set, override the strategy defaults for that instrument only. Beta of 0
// means "resolve from the beta source"; any explicit value wins.
type InstrumentConfig struct {
	Symbol string   `json:"symbol" yaml:"symbol"`
	Beta   *float64 `json:"beta,omitempty" yaml:"beta,omitempty"`

	LotSize   *float64 `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
	MaxLots   *int     `json:"max_lots,omitempty" yaml:"max_lots,omitempty"`
	GridPct   *float64 `json:"grid_pct,omitempty" yaml:"grid_pct,omitempty"`
	ProfitPct *float64 `json:"profit_pct,omitempty" yaml:"profit_pct,omitempty"`

	MaxSellLots *int  `json:"max_sell_lots,omitempty" yaml:"max_sell_lots,omitempty"`
	Adaptive    *bool `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
	Momentum    *bool `json:"momentum,omitempty" yaml:"momentum,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	ValuationsFile   string `json:"valuations_file,omitempty" yaml:"valuations_file,omitempty"`
	RejectionsFile   string `json:"rejections_file,omitempty" yaml:"rejections_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, _, err := c.Run.StartEnd(); err != nil {
		return err
	}
	if c.Data.Source != "yahoo" && c.Data.Source != "csv" {
		return fmt.Errorf("data.source must be 'yahoo' or 'csv'")
	}
	if c.Data.Source == "csv" && c.Data.CSVDir == "" {
		return fmt.Errorf("data.csv_dir required for CSV source")
	}
	if c.Portfolio.TotalCapital <= 0 {
		return fmt.Errorf("portfolio.total_capital must be positive")
	}
	if c.Portfolio.MarginPct < 0 {
		return fmt.Errorf("portfolio.margin_pct must be non-negative")
	}
	if c.Portfolio.CashYieldPct < 0 {
		return fmt.Errorf("portfolio.cash_yield_pct must be non-negative")
	}
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, in := range c.Instruments {
		if in.Symbol == "" {
			return fmt.Errorf("instruments[%d].symbol is required", i)
		}
		if seen[in.Symbol] {
			return fmt.Errorf("duplicate instrument: %s", in.Symbol)
		}
		seen[in.Symbol] = true
		if in.Beta != nil && *in.Beta <= 0 {
			return fmt.Errorf("instruments[%d].beta must be positive", i)
		}
		if _, err := c.InstrumentParams(in); err != nil {
			return fmt.Errorf("instrument %s: %w", in.Symbol, err)
		}
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.ValuationsFile == "" || c.Journal.RejectionsFile == "" {
			return fmt.Errorf("journal transactions_file, valuations_file and rejections_file required for CSV type")
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

// Params resolves the strategy defaults into trading parameters.
func (c *Config) Params() (dca.Params, error) {
	s := c.Strategy
	p := dca.Defaults()

	if s.LotSize != 0 {
		p.LotSize = s.LotSize
	}
	if s.MaxLots != 0 {
		p.MaxLots = s.MaxLots
	}
	if s.GridPct != 0 {
		p.GridPct = s.GridPct
	}
	if s.ProfitPct != 0 {
		p.ProfitPct = s.ProfitPct
	}
	if s.BuyActivationPct != 0 {
		p.BuyActivationPct = s.BuyActivationPct
	}
	if s.SellActivationPct != 0 {
		p.SellActivationPct = s.SellActivationPct
	}
	if s.ReboundPct != 0 {
		p.ReboundPct = s.ReboundPct
	}
	if s.PullbackPct != 0 {
		p.PullbackPct = s.PullbackPct
	}
	p.GridIncremental = s.GridIncremental
	if s.GridIncrementPct != 0 {
		p.GridIncrementPct = s.GridIncrementPct
	}
	p.ProfitIncremental = s.ProfitIncremental
	if s.ProfitIncrementPct != 0 {
		p.ProfitIncrementPct = s.ProfitIncrementPct
	}
	if s.MaxSellLots != 0 {
		p.MaxSellLots = s.MaxSellLots
	}
	switch s.OrderType {
	case "", "limit":
		p.OrderType = dca.Limit
	case "market":
		p.OrderType = dca.Market
	default:
		return dca.Params{}, fmt.Errorf("strategy.order_type must be 'limit' or 'market'")
	}
	p.Adaptive = s.Adaptive
	p.Momentum = s.Momentum
	if s.WinThresholdPct != 0 {
		p.WinThresholdPct = s.WinThresholdPct
	}
	if s.Conservative != nil {
		p.Conservative = profileParams(s.Conservative)
	}
	if s.Aggressive != nil {
		p.Aggressive = profileParams(s.Aggressive)
	}

	if err := p.Validate(); err != nil {
		return dca.Params{}, err
	}
	return p, nil
}

// InstrumentParams layers one instrument's overrides on top of the
// strategy defaults.
func (c *Config) InstrumentParams(in InstrumentConfig) (dca.Params, error) {
	p, err := c.Params()
	if err != nil {
		return dca.Params{}, err
	}
	if in.LotSize != nil {
		p.LotSize = *in.LotSize
	}
	if in.MaxLots != nil {
		p.MaxLots = *in.MaxLots
	}
	if in.GridPct != nil {
		p.GridPct = *in.GridPct
	}
	if in.ProfitPct != nil {
		p.ProfitPct = *in.ProfitPct
	}
	if in.MaxSellLots != nil {
		p.MaxSellLots = *in.MaxSellLots
	}
	if in.Adaptive != nil {
		p.Adaptive = *in.Adaptive
	}
	if in.Momentum != nil {
		p.Momentum = *in.Momentum
	}
	if err := p.Validate(); err != nil {
		return dca.Params{}, err
	}
	return p, nil
}

// PortfolioParams translates the capital section.
func (c *Config) PortfolioParams() portfolio.Config {
	return portfolio.Config{
		TotalCapital:   c.Portfolio.TotalCapital,
		MarginPct:      c.Portfolio.MarginPct,
		CashYieldPct:   c.Portfolio.CashYieldPct,
		BetaAllocation: c.Portfolio.BetaAllocation,
	}
}

func profileParams(pc *ProfileConfig) *dca.ProfileParams {
	return &dca.ProfileParams{
		BuyActivationPct:  pc.BuyActivationPct,
		SellActivationPct: pc.SellActivationPct,
		ReboundPct:        pc.ReboundPct,
		PullbackPct:       pc.PullbackPct,
		ProfitPct:         pc.ProfitPct,
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Start:       "2023-01-01",
			End:         "2024-01-01",
			RiskFreePct: 4.0,
			LogLevel:    "info",
		},
		Data: DataConfig{
			Source:   "yahoo",
			CacheDir: "./history-cache",
		},
		Portfolio: PortfolioConfig{
			TotalCapital: 100000,
			MarginPct:    0,
			CashYieldPct: 0,
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
