package main

import (
	"context"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"

	"trendsim-go/internal/backtest"
	"trendsim-go/internal/config"
	"trendsim-go/internal/execution"
	"trendsim-go/internal/feed"
	"trendsim-go/internal/metrics"
	"trendsim-go/internal/risk"
	"trendsim-go/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	configPath := flag.String("config", defaultConfigPath, "path to YAML config")
	csvPath := flag.String("csv", "", "load bars from CSV instead of the configured provider")
	quiet := flag.Bool("quiet", false, "print only the summary line")
	flag.Parse()

	boot := util.NewLogger("info", true)

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error().Err(err).Msg("load config")
		return 1
	}
	if err := cfg.ApplyEnv(); err != nil {
		boot.Error().Err(err).Msg("env overrides")
		return 1
	}
	if *csvPath != "" {
		cfg.Data.Provider = feed.ProviderCSV
		cfg.Data.CSVPath = *csvPath
	}
	if err := cfg.Validate(); err != nil {
		boot.Error().Err(err).Msg("invalid config")
		return 1
	}

	log := util.NewLogger(cfg.App.LogLevel, cfg.App.Env == "dev")

	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	series, err := feed.FromConfig(cfg.Data, log).Series(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load series")
		return 1
	}

	runner := backtest.NewRunner(log, execution.NewExecutor(log))
	table, runErr := runner.Run(series, backtest.Params{
		Mode:         cfg.Strategy.Mode,
		ShortWindow:  cfg.Strategy.Params.ShortWindow,
		LongWindow:   cfg.Strategy.Params.LongWindow,
		InitialCash:  cfg.Paper.StartingCash,
		RiskPerTrade: risk.FromPercent(cfg.Paper.RiskPerTradePct).RiskPerTrade,
	})

	render := table.Render
	if *quiet {
		render = table.RenderSummary
	}
	if err := render(os.Stdout); err != nil {
		log.Error().Err(err).Msg("render")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("backtest failed")
		return 1
	}
	return 0
}
