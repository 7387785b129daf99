package paper

import (
	"trendsim-go/internal/risk"
)

// State is the portfolio after a bar was processed. PositionSize is zero while flat.
type State struct {
	Cash         float64
	PositionSize float64
}

// Account tracks virtual cash and a single long position while backtesting.
// It is owned by one simulation loop and is not safe for concurrent use.
type Account struct {
	cash     float64
	position float64
	long     bool
	limits   risk.Limits
}

// NewAccount constructs an account populated with starting cash and the entry sizing rule.
func NewAccount(startingCash float64, limits risk.Limits) *Account {
	return &Account{cash: startingCash, limits: limits}
}

// Long reports whether a position is open.
func (a *Account) Long() bool { return a.long }

// Enter buys at close, sized from the cash at risk down to low. On error nothing changes.
func (a *Account) Enter(close, low float64) (float64, error) {
	qty, err := a.limits.PositionSize(a.cash, close, low)
	if err != nil {
		return 0, err
	}
	a.cash -= qty * close
	a.position = qty
	a.long = true
	return qty, nil
}

// Exit sells the whole position at close and returns the quantity sold.
func (a *Account) Exit(close float64) float64 {
	qty := a.position
	a.cash += qty * close
	a.position = 0
	a.long = false
	return qty
}

// Equity marks the account to the supplied price.
func (a *Account) Equity(mark float64) float64 {
	return a.cash + a.position*mark
}

// State returns a copy of the balances.
func (a *Account) State() State {
	return State{Cash: a.cash, PositionSize: a.position}
}
