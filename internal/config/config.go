// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"trendsim-go/internal/risk"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// StrategyParams groups tunable knobs for a strategy implementation.
type StrategyParams struct {
	ShortWindow int `yaml:"short_window"`
	LongWindow  int `yaml:"long_window"`
}

// Strategy specifies which strategy is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Paper captures the simulated account: starting cash and the percent of cash risked per entry.
type Paper struct {
	StartingCash    float64 `yaml:"starting_cash"`
	RiskPerTradePct float64 `yaml:"risk_per_trade_pct"`
}

// Data selects where bars come from.
type Data struct {
	Provider      string  `yaml:"provider"`
	Bars          int     `yaml:"bars"`
	Seed          int64   `yaml:"seed"`
	Start         string  `yaml:"start"`
	IntervalHours int     `yaml:"interval_hours"`
	StartPrice    float64 `yaml:"start_price"`
	Volatility    float64 `yaml:"volatility"`
	CSVPath       string  `yaml:"csv_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Strategy Strategy `yaml:"strategy"`
	Paper    Paper    `yaml:"paper"`
	Data     Data     `yaml:"data"`
}

// Default returns the settings the simulator ships with.
func Default() *Config {
	return &Config{
		App:      App{Name: "trendsim", Env: "dev", LogLevel: "info"},
		Strategy: Strategy{Mode: "sma_cross", Params: StrategyParams{ShortWindow: 10, LongWindow: 50}},
		Paper:    Paper{StartingCash: 100000, RiskPerTradePct: 0.02},
		Data:     Data{Provider: "random", Bars: 1000, Seed: 1, Start: "2010-01-01", IntervalHours: 24},
	}
}

// Load reads a YAML file from disk and hydrates a Config struct on top of Default.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate enforces the operator bounds on windows, risk and starting cash.
func (c *Config) Validate() error {
	if err := risk.ValidateInputs(c.Strategy.Params.ShortWindow, c.Strategy.Params.LongWindow, c.Paper.RiskPerTradePct); err != nil {
		return err
	}
	if c.Paper.StartingCash <= 0 {
		return errors.New("starting cash must be positive")
	}
	return nil
}

// Env keys recognised by ApplyEnv.
const (
	EnvShortWindow  = "TRENDSIM_SHORT_WINDOW"
	EnvLongWindow   = "TRENDSIM_LONG_WINDOW"
	EnvRiskPct      = "TRENDSIM_RISK_PCT"
	EnvStartingCash = "TRENDSIM_STARTING_CASH"
	EnvLogLevel     = "TRENDSIM_LOG_LEVEL"
	EnvMetricsAddr  = "TRENDSIM_METRICS_ADDR"
	EnvCSVPath      = "TRENDSIM_CSV_PATH"
)

// ApplyEnv loads dotenv files (best-effort) and overrides settings from TRENDSIM_* variables.
func (c *Config) ApplyEnv(dotenv ...string) error {
	_ = godotenv.Load(dotenv...)

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.App.MetricsAddr = v
	}
	if v := os.Getenv(EnvCSVPath); v != "" {
		c.Data.Provider = "csv"
		c.Data.CSVPath = v
	}
	if err := envInt(EnvShortWindow, &c.Strategy.Params.ShortWindow); err != nil {
		return err
	}
	if err := envInt(EnvLongWindow, &c.Strategy.Params.LongWindow); err != nil {
		return err
	}
	if err := envFloat(EnvRiskPct, &c.Paper.RiskPerTradePct); err != nil {
		return err
	}
	return envFloat(EnvStartingCash, &c.Paper.StartingCash)
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}
