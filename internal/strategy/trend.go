package strategy

import (
	"errors"
	"fmt"

	"trendsim-go/internal/signal"
)

var (
	// ErrInvalidWindow is returned when a moving-average window is not positive.
	ErrInvalidWindow = errors.New("moving average window must be positive")
	// ErrEmptySeries is returned when there are no bars to evaluate.
	ErrEmptySeries = signal.ErrEmptySeries
)

// TrendFollower wants long exposure whenever the short moving average of closes sits above the long one.
type TrendFollower struct {
	shortWindow int
	longWindow  int
}

// NewTrendFollower builds a dual moving-average crossover strategy.
// A short window greater than or equal to the long one is accepted as-is.
func NewTrendFollower(shortWindow, longWindow int) *TrendFollower {
	return &TrendFollower{shortWindow: shortWindow, longWindow: longWindow}
}

// Name returns the configured identifier for logging.
func (t *TrendFollower) Name() string {
	return fmt.Sprintf("TrendFollower(%d/%d)", t.shortWindow, t.longWindow)
}

// Generate evaluates the crossover over the whole series.
func (t *TrendFollower) Generate(series signal.Series) ([]signal.Record, error) {
	return Generate(series, t.shortWindow, t.longWindow)
}

// Generate emits one record per bar of series.
//
// Both averages use a minimum period of one: until a window fills, the mean covers every
// close seen so far. The signal is forced Flat for the first shortWindow bars no matter how
// the averages compare, so index shortWindow is the first bar that can go Long. The warm-up
// is keyed to the short window even when the long window is larger; backtest results depend
// on that boundary.
func Generate(series signal.Series, shortWindow, longWindow int) ([]signal.Record, error) {
	if shortWindow <= 0 || longWindow <= 0 {
		return nil, fmt.Errorf("short=%d long=%d: %w", shortWindow, longWindow, ErrInvalidWindow)
	}
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}

	closes := series.Closes()
	shortMA := rollingMean(closes, shortWindow)
	longMA := rollingMean(closes, longWindow)

	out := make([]signal.Record, len(closes))
	prev := signal.Flat
	for i := range closes {
		pos := signal.Flat
		if i >= shortWindow && shortMA[i] > longMA[i] {
			pos = signal.Long
		}
		transition := signal.None
		if i > 0 {
			transition = signal.TransitionBetween(prev, pos)
		}
		out[i] = signal.Record{
			Ts:         series.At(i).Ts,
			ShortMA:    shortMA[i],
			LongMA:     longMA[i],
			Signal:     pos,
			Transition: transition,
		}
		prev = pos
	}
	return out, nil
}

// rollingMean averages the trailing min(window, i+1) values ending at each index.
// Each window is summed from scratch so equal windows give bit-identical means.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}
