// Package backtest chains signal generation and the paper simulation into one result table.
package backtest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trendsim-go/internal/metrics"
	"trendsim-go/internal/paper"
	"trendsim-go/internal/risk"
	"trendsim-go/internal/signal"
	"trendsim-go/internal/strategy"
)

// Params configures a single backtest. RiskPerTrade is a fraction, not a percent.
type Params struct {
	Mode         string
	ShortWindow  int
	LongWindow   int
	InitialCash  float64
	RiskPerTrade float64
}

// Runner executes backtests and reports them to logs and metrics.
type Runner struct {
	log       zerolog.Logger
	recorders []paper.FillRecorder
}

// NewRunner builds a runner; every fill is also handed to recorders.
func NewRunner(log zerolog.Logger, recorders ...paper.FillRecorder) *Runner {
	return &Runner{log: log, recorders: recorders}
}

// Run generates signals for series and simulates them.
// Any error leaves Incomplete set; if the simulation aborts midway the table holds the processed prefix.
func (r *Runner) Run(series signal.Series, p Params) (Table, error) {
	table := Table{RunID: uuid.New(), InitialCash: p.InitialCash}
	log := r.log.With().Str("run", table.RunID.String()).Logger()

	strat, err := strategy.Build(p.Mode, strategy.Params{ShortWindow: p.ShortWindow, LongWindow: p.LongWindow})
	if err != nil {
		table.Incomplete = true
		return table, err
	}
	table.Strategy = strat.Name()

	records, err := strat.Generate(series)
	if err != nil {
		table.Incomplete = true
		metrics.SimErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		return table, fmt.Errorf("generate signals: %w", err)
	}
	table.Signals = records
	for _, rec := range records {
		metrics.SignalsTotal.WithLabelValues(rec.Transition.String()).Inc()
	}

	ledger := paper.NewLedger(16)
	opts := []paper.Option{paper.WithLogger(log), paper.WithRecorder(ledger)}
	for _, rec := range r.recorders {
		opts = append(opts, paper.WithRecorder(rec))
	}
	res, simErr := paper.NewSimulator(opts...).Run(series, records, p.InitialCash, p.RiskPerTrade)

	table.Rows = make([]Row, len(res.Equity))
	for i, eq := range res.Equity {
		bar := series.At(i)
		table.Rows[i] = Row{
			Ts:         bar.Ts,
			Close:      bar.Close,
			ShortMA:    records[i].ShortMA,
			LongMA:     records[i].LongMA,
			Signal:     records[i].Signal,
			Transition: records[i].Transition,
			Equity:     eq.Equity,
		}
	}
	table.Fills = ledger.Snapshot()
	table.Trades = ledger.Trades()
	table.Skipped = res.Skipped
	table.Final = res.Final
	table.Incomplete = res.Incomplete

	if n := len(res.Skipped); n > 0 {
		metrics.SimErrorsTotal.WithLabelValues(errorKind(risk.ErrInvalidStop)).Add(float64(n))
		log.Warn().Ints("bars", res.Skipped).Msg("entries skipped: close below low")
	}

	if simErr != nil {
		metrics.SimErrorsTotal.WithLabelValues(errorKind(simErr)).Inc()
		log.Error().Err(simErr).Int("processed", len(table.Rows)).Msg("backtest aborted")
		return table, fmt.Errorf("simulate: %w", simErr)
	}

	metrics.EquityLast.Set(table.FinalEquity())
	log.Info().
		Str("strategy", table.Strategy).
		Int("bars", len(table.Rows)).
		Int("fills", len(table.Fills)).
		Int("skipped", len(table.Skipped)).
		Float64("equity", table.FinalEquity()).
		Msg("backtest complete")
	return table, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, strategy.ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, strategy.ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, risk.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, risk.ErrInvalidStop):
		return "invalid_stop"
	case errors.Is(err, paper.ErrMisalignedSeries):
		return "misaligned_series"
	case errors.Is(err, paper.ErrInvalidCash), errors.Is(err, risk.ErrInvalidRisk):
		return "invalid_params"
	default:
		return "other"
	}
}
