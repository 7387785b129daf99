package paper

import (
	"sync"
	"time"

	"trendsim-go/internal/execution"
)

// Ledger stores simulated fills in memory for quick inspection.
type Ledger struct {
	mu    sync.Mutex
	fills []execution.Fill
}

// Trade pairs an entry fill with the exit that closed it.
type Trade struct {
	EntryTs    time.Time
	ExitTs     time.Time
	Qty        float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{fills: make([]execution.Fill, 0, capacity)}
}

// Record appends a fill to the ledger.
func (l *Ledger) Record(fill execution.Fill) {
	l.mu.Lock()
	l.fills = append(l.fills, fill)
	l.mu.Unlock()
}

// Snapshot returns a copy of the recorded fills.
func (l *Ledger) Snapshot() []execution.Fill {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]execution.Fill, len(l.fills))
	copy(out, l.fills)
	return out
}

// Trades returns closed round trips in fill order. A trailing open entry is left out.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	var (
		out   []Trade
		entry *execution.Fill
	)
	for i := range l.fills {
		fill := l.fills[i]
		switch fill.Side {
		case execution.Buy:
			entry = &l.fills[i]
		case execution.Sell:
			if entry == nil {
				continue
			}
			out = append(out, Trade{
				EntryTs:    entry.Ts,
				ExitTs:     fill.Ts,
				Qty:        entry.Qty,
				EntryPrice: entry.Price,
				ExitPrice:  fill.Price,
				PnL:        (fill.Price - entry.Price) * entry.Qty,
			})
			entry = nil
		}
	}
	return out
}
