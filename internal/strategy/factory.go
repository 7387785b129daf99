// Package strategy turns price series into long/flat signal records.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"trendsim-go/internal/signal"
)

// ErrUnknownMode is returned by Build for an unrecognised strategy mode.
var ErrUnknownMode = errors.New("unknown strategy mode")

// Strategy defines behaviour shared by signal generators used by the backtester.
type Strategy interface {
	Generate(series signal.Series) ([]signal.Record, error)
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	ShortWindow int
	LongWindow  int
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string, params Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "sma", "sma_cross", "trend", "trend_follow", "trend_follower":
		return NewTrendFollower(params.ShortWindow, params.LongWindow), nil
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrUnknownMode)
	}
}
