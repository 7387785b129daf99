// Package paper replays long/flat signals against a virtual cash account.
package paper

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"trendsim-go/internal/execution"
	"trendsim-go/internal/risk"
	"trendsim-go/internal/signal"
)

var (
	// ErrMisalignedSeries is returned when signal records do not line up one-to-one with bars.
	ErrMisalignedSeries = errors.New("signals are not aligned with price series")
	// ErrInvalidCash is returned when the starting cash is not a positive finite number.
	ErrInvalidCash = errors.New("initial cash must be positive")
	// ErrDivisionByZero re-exports the sizing failure for callers of this package.
	ErrDivisionByZero = risk.ErrDivisionByZero
	// ErrEmptySeries is returned when there are no bars to replay.
	ErrEmptySeries = signal.ErrEmptySeries
)

// FillRecorder captures simulated fills for later inspection.
type FillRecorder interface {
	Record(execution.Fill)
}

// StepError reports the bar at which a simulation aborted.
type StepError struct {
	Index int
	Ts    time.Time
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("bar %d (%s): %v", e.Index, e.Ts.Format(time.RFC3339), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result is the output of one simulation pass.
// When Incomplete is set, Equity holds only the bars processed before the failure.
// Skipped lists the Enter bars that closed below their low and were not traded.
type Result struct {
	Equity     []signal.EquityRecord
	Fills      []execution.Fill
	Skipped    []int
	Final      State
	Incomplete bool
}

// Simulator folds signal records into an equity curve.
type Simulator struct {
	log       zerolog.Logger
	recorders []FillRecorder
}

// Option configures Simulator construction parameters.
type Option func(*Simulator)

// WithLogger routes per-fill debug output to log.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

// WithRecorder adds a sink that receives every fill as it happens.
func WithRecorder(r FillRecorder) Option {
	return func(s *Simulator) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

// NewSimulator constructs a simulator. Without options it is silent.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs a silent simulation.
func Simulate(series signal.Series, records []signal.Record, initialCash, riskPerTrade float64) (Result, error) {
	return NewSimulator().Run(series, records, initialCash, riskPerTrade)
}

// Run replays records bar by bar. Entries are sized once, on the Enter edge; Exit sells
// everything at the close; None leaves the account untouched. Whatever is open after the
// last bar stays open.
//
// An entry on a bar that closes at its low aborts the run at that bar. The account
// stays flat, Equity holds the preceding bars and the error is a *StepError. An entry on
// a bar that closes below its low is skipped: the account stays flat and the bar is
// listed in Skipped.
func (s *Simulator) Run(series signal.Series, records []signal.Record, initialCash, riskPerTrade float64) (Result, error) {
	if err := validate(series, records, initialCash); err != nil {
		return Result{Incomplete: true}, err
	}
	limits := risk.Limits{RiskPerTrade: riskPerTrade}
	if err := limits.Validate(); err != nil {
		return Result{Incomplete: true}, err
	}

	acct := NewAccount(initialCash, limits)
	res := Result{Equity: make([]signal.EquityRecord, 0, len(records))}

	for i, rec := range records {
		bar := series.At(i)
		switch rec.Transition {
		case signal.Enter:
			if acct.Long() {
				s.log.Debug().Int("idx", i).Msg("enter while long ignored")
				break
			}
			qty, err := acct.Enter(bar.Close, bar.Low)
			if errors.Is(err, risk.ErrInvalidStop) {
				s.log.Warn().Err(err).Int("idx", i).Time("ts", bar.Ts).Msg("entry skipped")
				res.Skipped = append(res.Skipped, i)
				break
			}
			if err != nil {
				s.log.Warn().Err(err).Int("idx", i).Time("ts", bar.Ts).Msg("entry rejected")
				res.Final = acct.State()
				res.Incomplete = true
				return res, &StepError{Index: i, Ts: bar.Ts, Err: err}
			}
			s.fill(&res, execution.Fill{Ts: bar.Ts, Index: i, Side: execution.Buy, Qty: qty, Price: bar.Close, Cash: acct.State().Cash})
		case signal.Exit:
			if !acct.Long() {
				break
			}
			qty := acct.Exit(bar.Close)
			s.fill(&res, execution.Fill{Ts: bar.Ts, Index: i, Side: execution.Sell, Qty: qty, Price: bar.Close, Cash: acct.State().Cash})
		}
		res.Equity = append(res.Equity, signal.EquityRecord{Ts: bar.Ts, Equity: acct.Equity(bar.Close)})
	}

	res.Final = acct.State()
	return res, nil
}

func (s *Simulator) fill(res *Result, fill execution.Fill) {
	res.Fills = append(res.Fills, fill)
	for _, r := range s.recorders {
		r.Record(fill)
	}
	s.log.Debug().Int("idx", fill.Index).Str("side", string(fill.Side)).Float64("qty", fill.Qty).Float64("cash", fill.Cash).Msg("simulated fill")
}

func validate(series signal.Series, records []signal.Record, initialCash float64) error {
	if series.Len() != len(records) {
		return fmt.Errorf("%d bars vs %d records: %w", series.Len(), len(records), ErrMisalignedSeries)
	}
	if series.Len() == 0 {
		return ErrEmptySeries
	}
	for i, rec := range records {
		if !rec.Ts.Equal(series.At(i).Ts) {
			return fmt.Errorf("record %d stamped %s, bar stamped %s: %w",
				i, rec.Ts.Format(time.RFC3339), series.At(i).Ts.Format(time.RFC3339), ErrMisalignedSeries)
		}
	}
	if math.IsNaN(initialCash) || math.IsInf(initialCash, 0) || initialCash <= 0 {
		return fmt.Errorf("cash=%v: %w", initialCash, ErrInvalidCash)
	}
	return nil
}
