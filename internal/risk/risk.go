// Package risk sizes entries from a fixed fraction of cash put at risk.
package risk

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when the entry bar closes at its low, leaving no stop distance.
	ErrDivisionByZero = errors.New("close equals low: zero stop distance")
	// ErrInvalidStop is returned when the entry bar closes below its low.
	ErrInvalidStop = errors.New("close below low: negative stop distance")
	// ErrInvalidRisk is returned when the risk fraction falls outside (0, 1].
	ErrInvalidRisk = errors.New("risk per trade must be in (0, 1]")
	// ErrOutOfRange is returned when an operator-supplied knob is outside its accepted bounds.
	ErrOutOfRange = errors.New("value out of range")
)

// Bounds accepted from operators before a backtest is configured.
const (
	MinShortWindow     = 1
	MaxShortWindow     = 100
	MinLongWindow      = 1
	MaxLongWindow      = 200
	MinRiskPerTradePct = 0.01
	MaxRiskPerTradePct = 1.0
)

// Limits holds the fraction of available cash that a single entry may lose down to the bar's low.
type Limits struct {
	RiskPerTrade float64
}

// FromPercent converts an operator percentage (0.02 means 0.02%) into Limits.
func FromPercent(pct float64) Limits {
	return Limits{RiskPerTrade: pct / 100}
}

// Validate checks the fraction lies in (0, 1].
func (l Limits) Validate() error {
	if math.IsNaN(l.RiskPerTrade) || l.RiskPerTrade <= 0 || l.RiskPerTrade > 1 {
		return fmt.Errorf("risk=%v: %w", l.RiskPerTrade, ErrInvalidRisk)
	}
	return nil
}

// PositionSize returns the quantity to buy at close given the bar's low as the stop.
// The risk-implied size is capped by what cash can pay for outright.
func (l Limits) PositionSize(cash, close, low float64) (float64, error) {
	stop := close - low
	switch {
	case stop == 0:
		return 0, ErrDivisionByZero
	case stop < 0:
		return 0, fmt.Errorf("close=%v low=%v: %w", close, low, ErrInvalidStop)
	}
	maxSize := (l.RiskPerTrade * cash) / stop
	return math.Min(maxSize, cash/close), nil
}

// ValidateInputs enforces the operator bounds on windows and the risk percentage.
func ValidateInputs(shortWindow, longWindow int, riskPct float64) error {
	if shortWindow < MinShortWindow || shortWindow > MaxShortWindow {
		return fmt.Errorf("short window %d not in [%d,%d]: %w", shortWindow, MinShortWindow, MaxShortWindow, ErrOutOfRange)
	}
	if longWindow < MinLongWindow || longWindow > MaxLongWindow {
		return fmt.Errorf("long window %d not in [%d,%d]: %w", longWindow, MinLongWindow, MaxLongWindow, ErrOutOfRange)
	}
	if math.IsNaN(riskPct) || riskPct < MinRiskPerTradePct || riskPct > MaxRiskPerTradePct {
		return fmt.Errorf("risk per trade %.4f%% not in [%.2f,%.2f]: %w", riskPct, MinRiskPerTradePct, MaxRiskPerTradePct, ErrOutOfRange)
	}
	return nil
}
