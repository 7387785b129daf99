package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trendsim-go/internal/backtest"
	"trendsim-go/internal/config"
	"trendsim-go/internal/feed"
	"trendsim-go/internal/risk"
	"trendsim-go/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== Trend Simulator ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit windows and risk")
		fmt.Println("3) Edit bankroll and data source")
		fmt.Println("4) Save config")
		fmt.Println("5) Run backtest")
		fmt.Println("6) Reload config from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		choice := strings.TrimSpace(input)

		switch choice {
		case "1":
			printSummary(cfg)
		case "2":
			editStrategy(reader, cfg)
		case "3":
			editPaper(reader, cfg)
		case "4":
			if err := saveConfig(cfg); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("config saved")
			}
		case "5":
			runBacktest(reader, cfg)
		case "6":
			reloaded, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg = reloaded
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config) {
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Strategy: %s (short %d / long %d)\n", cfg.Strategy.Mode, cfg.Strategy.Params.ShortWindow, cfg.Strategy.Params.LongWindow)
	fmt.Printf("Risk per trade: %.4f%%\n", cfg.Paper.RiskPerTradePct)
	fmt.Printf("Starting cash: $%.2f\n", cfg.Paper.StartingCash)
	fmt.Printf("Data: %s, %d bars, seed %d\n", cfg.Data.Provider, cfg.Data.Bars, cfg.Data.Seed)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("WARNING: %v\n", err)
	}
}

func editStrategy(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Windows / Risk ---")
	cfg.Strategy.Params.ShortWindow = promptInt(reader, "Short window", cfg.Strategy.Params.ShortWindow, risk.MinShortWindow, risk.MaxShortWindow)
	cfg.Strategy.Params.LongWindow = promptInt(reader, "Long window", cfg.Strategy.Params.LongWindow, risk.MinLongWindow, risk.MaxLongWindow)
	cfg.Paper.RiskPerTradePct = promptFloat(reader, "Risk per trade (%)", cfg.Paper.RiskPerTradePct, risk.MinRiskPerTradePct, risk.MaxRiskPerTradePct)
}

func editPaper(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Bankroll / Data ---")
	cfg.Paper.StartingCash = promptFloat(reader, "Starting cash", cfg.Paper.StartingCash, 1, 1e12)
	fmt.Printf("Data provider (random|walk|csv) [%s]: ", cfg.Data.Provider)
	if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) != "" {
		cfg.Data.Provider = strings.ToLower(strings.TrimSpace(line))
	}
	if cfg.Data.Provider == feed.ProviderCSV {
		fmt.Printf("CSV path [%s]: ", cfg.Data.CSVPath)
		if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) != "" {
			cfg.Data.CSVPath = strings.TrimSpace(line)
		}
		return
	}
	cfg.Data.Bars = promptInt(reader, "Bars", cfg.Data.Bars, 1, 1_000_000)
	cfg.Data.Seed = int64(promptInt(reader, "Seed", int(cfg.Data.Seed), 0, 1<<31-1))
}

func runBacktest(reader *bufio.Reader, cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config invalid: %v\n", err)
		return
	}
	log := util.NewLogger(cfg.App.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	series, err := feed.FromConfig(cfg.Data, log).Series(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load series: %v\n", err)
		return
	}

	table, err := backtest.NewRunner(log.Level(zerolog.WarnLevel)).Run(series, backtest.Params{
		Mode:         cfg.Strategy.Mode,
		ShortWindow:  cfg.Strategy.Params.ShortWindow,
		LongWindow:   cfg.Strategy.Params.LongWindow,
		InitialCash:  cfg.Paper.StartingCash,
		RiskPerTrade: risk.FromPercent(cfg.Paper.RiskPerTradePct).RiskPerTrade,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "backtest error: %v\n", err)
	}

	fmt.Print("Show full table? [y/N]: ")
	line, _ := reader.ReadString('\n')
	if strings.EqualFold(strings.TrimSpace(line), "y") {
		_ = table.Render(os.Stdout)
		return
	}
	_ = table.RenderSummary(os.Stdout)
}

func promptInt(reader *bufio.Reader, label string, current, lo, hi int) int {
	fmt.Printf("%s [%d] (%d-%d): ", label, current, lo, hi)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.Atoi(line)
	if err != nil {
		fmt.Printf("invalid number, keeping %d\n", current)
		return current
	}
	if val < lo || val > hi {
		fmt.Printf("out of range, keeping %d\n", current)
		return current
	}
	return val
}

func promptFloat(reader *bufio.Reader, label string, current, lo, hi float64) float64 {
	fmt.Printf("%s [%.4f] (%.2f-%.2f): ", label, current, lo, hi)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %.4f\n", current)
		return current
	}
	if val < lo || val > hi {
		fmt.Printf("out of range, keeping %.4f\n", current)
		return current
	}
	return val
}

func loadConfig() (*config.Config, error) {
	return config.Load(defaultConfigPath)
}

func saveConfig(cfg *config.Config) error {
	return config.Save(defaultConfigPath, cfg)
}
