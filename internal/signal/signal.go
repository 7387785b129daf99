// Package signal standardizes payloads shared between the data feed, strategy and paper layers.
package signal

import "time"

// PricePoint models one OHLCV bar consumed by strategies.
type PricePoint struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume uint64
}

// Position is the desired exposure emitted by a strategy.
type Position int

const (
	// Flat means no exposure is wanted.
	Flat Position = 0
	// Long means full long exposure is wanted.
	Long Position = 1
)

func (p Position) String() string {
	if p == Long {
		return "LONG"
	}
	return "FLAT"
}

// Transition marks a change of Position between consecutive records.
type Transition int

const (
	// None means the position did not change.
	None Transition = iota
	// Enter marks a Flat to Long change.
	Enter
	// Exit marks a Long to Flat change.
	Exit
)

func (t Transition) String() string {
	switch t {
	case Enter:
		return "ENTER"
	case Exit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// TransitionBetween derives the transition implied by moving from prev to cur.
func TransitionBetween(prev, cur Position) Transition {
	switch int(cur) - int(prev) {
	case 1:
		return Enter
	case -1:
		return Exit
	default:
		return None
	}
}

// Record is the per-bar output of a signal generator.
type Record struct {
	Ts         time.Time
	ShortMA    float64
	LongMA     float64
	Signal     Position
	Transition Transition
}

// EquityRecord is the marked-to-market portfolio value after a bar was processed.
type EquityRecord struct {
	Ts     time.Time
	Equity float64
}
