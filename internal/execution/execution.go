// Package execution describes simulated fills and reports them to logs and metrics.
package execution

import (
	"time"

	"trendsim-go/internal/metrics"

	"github.com/rs/zerolog"
)

// Side enumerates fill directions.
type Side string

const (
	// Buy opens the long position.
	Buy Side = "BUY"
	// Sell closes the long position.
	Sell Side = "SELL"
)

// Fill is a completed simulated trade. Cash is the balance right after the fill settled.
type Fill struct {
	Ts    time.Time `json:"ts"`
	Index int       `json:"index"`
	Side  Side      `json:"side"`
	Qty   float64   `json:"qty"`
	Price float64   `json:"price"`
	Cash  float64   `json:"cash"`
}

// Notional is the traded value of the fill.
func (f Fill) Notional() float64 { return f.Qty * f.Price }

// Executor implements a logger-backed fill reporter.
type Executor struct{ log zerolog.Logger }

// NewExecutor wraps a zerolog logger for fill reporting.
func NewExecutor(log zerolog.Logger) *Executor { return &Executor{log: log} }

// Record logs the fill and counts it.
func (executor *Executor) Record(fill Fill) {
	metrics.FillsTotal.WithLabelValues(string(fill.Side)).Inc()
	executor.log.Info().
		Time("ts", fill.Ts).
		Int("idx", fill.Index).
		Str("side", string(fill.Side)).
		Float64("qty", fill.Qty).
		Float64("px", fill.Price).
		Float64("notional", fill.Notional()).
		Float64("cash", fill.Cash).
		Msg("fill")
}
