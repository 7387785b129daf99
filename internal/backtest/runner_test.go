package backtest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"trendsim-go/internal/execution"
	"trendsim-go/internal/paper"
	"trendsim-go/internal/risk"
	"trendsim-go/internal/signal"
	"trendsim-go/internal/strategy"
)

func series(t *testing.T, closes []float64, lows map[int]float64) signal.Series {
	t.Helper()
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]signal.PricePoint, len(closes))
	for i, c := range closes {
		low := c - 1
		if l, ok := lows[i]; ok {
			low = l
		}
		points[i] = signal.PricePoint{Ts: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: low, Close: c, Volume: 20000}
	}
	s, err := signal.NewSeries(points)
	if err != nil {
		t.Fatalf("NewSeries returned error: %v", err)
	}
	return s
}

func TestRunProducesAlignedTable(t *testing.T) {
	var buf bytes.Buffer
	exec := execution.NewExecutor(zerolog.New(&buf))
	runner := NewRunner(zerolog.Nop(), exec)

	s := series(t, []float64{10, 9, 8, 12, 13, 11, 7, 6}, nil)
	table, err := runner.Run(s, Params{Mode: "sma_cross", ShortWindow: 2, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(table.Rows) != s.Len() || len(table.Signals) != s.Len() {
		t.Fatalf("expected %d rows, got %d rows / %d signals", s.Len(), len(table.Rows), len(table.Signals))
	}
	if table.Rows[3].Transition != signal.Enter {
		t.Fatalf("expected enter at row 3, got %s", table.Rows[3].Transition)
	}
	if len(table.Fills) != 2 || len(table.Trades) != 1 {
		t.Fatalf("expected one round trip, got %d fills / %d trades", len(table.Fills), len(table.Trades))
	}
	if table.Final.PositionSize != 0 {
		t.Fatalf("expected flat at the end, got %+v", table.Final)
	}
	if table.Incomplete {
		t.Fatalf("unexpected incomplete table")
	}
	if table.Strategy != "TrendFollower(2/3)" {
		t.Fatalf("unexpected strategy %s", table.Strategy)
	}
	if !strings.Contains(buf.String(), `"side":"SELL"`) {
		t.Fatalf("expected executor to log the exit, got %s", buf.String())
	}
}

func TestRunReturnsPrefixOnDivisionByZero(t *testing.T) {
	s := series(t, []float64{10, 9, 8, 12, 13}, map[int]float64{3: 12})
	table, err := NewRunner(zerolog.Nop()).Run(s, Params{ShortWindow: 2, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if !errors.Is(err, risk.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	var stepErr *paper.StepError
	if !errors.As(err, &stepErr) || stepErr.Index != 3 {
		t.Fatalf("expected failure at bar 3, got %v", err)
	}
	if !table.Incomplete || len(table.Rows) != 3 {
		t.Fatalf("expected 3-row incomplete table, got %d rows (incomplete=%v)", len(table.Rows), table.Incomplete)
	}
	if table.FinalEquity() != 1000 {
		t.Fatalf("expected untouched equity, got %.2f", table.FinalEquity())
	}

	var out bytes.Buffer
	if err := table.Render(&out); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out.String(), "INCOMPLETE") {
		t.Fatalf("expected incomplete marker, got %s", out.String())
	}
}

func TestRunRejectsBadWindows(t *testing.T) {
	s := series(t, []float64{1, 2, 3}, nil)
	table, err := NewRunner(zerolog.Nop()).Run(s, Params{ShortWindow: 0, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if !errors.Is(err, strategy.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if !table.Incomplete {
		t.Fatalf("expected incomplete table on invalid window")
	}
	table, err = NewRunner(zerolog.Nop()).Run(s, Params{Mode: "renko", ShortWindow: 1, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if !errors.Is(err, strategy.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if !table.Incomplete {
		t.Fatalf("expected incomplete table on unknown mode")
	}
}

func TestRunMarksEmptySeriesIncomplete(t *testing.T) {
	table, err := NewRunner(zerolog.Nop()).Run(signal.Series{}, Params{ShortWindow: 2, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if !errors.Is(err, strategy.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	if !table.Incomplete || len(table.Rows) != 0 {
		t.Fatalf("expected empty incomplete table, got %d rows (incomplete=%v)", len(table.Rows), table.Incomplete)
	}
	if table.FinalEquity() != 1000 {
		t.Fatalf("expected starting cash as final equity, got %.2f", table.FinalEquity())
	}
}

func TestRunSkipsEntryBelowLow(t *testing.T) {
	s := series(t, []float64{10, 9, 8, 12, 13, 11, 7, 6}, map[int]float64{3: 14})
	table, err := NewRunner(zerolog.Nop()).Run(s, Params{ShortWindow: 2, LongWindow: 3, InitialCash: 1000, RiskPerTrade: 0.01})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if table.Incomplete || len(table.Rows) != s.Len() {
		t.Fatalf("expected a complete table, got %d rows (incomplete=%v)", len(table.Rows), table.Incomplete)
	}
	if len(table.Skipped) != 1 || table.Skipped[0] != 3 {
		t.Fatalf("expected bar 3 skipped, got %v", table.Skipped)
	}
	if len(table.Fills) != 0 || table.FinalEquity() != 1000 {
		t.Fatalf("expected no fills and untouched equity, got %d fills / %.2f", len(table.Fills), table.FinalEquity())
	}

	var out bytes.Buffer
	if err := table.RenderSummary(&out); err != nil {
		t.Fatalf("RenderSummary returned error: %v", err)
	}
	if !strings.Contains(out.String(), "skipped=1") || !strings.Contains(out.String(), "(complete)") {
		t.Fatalf("unexpected summary %s", out.String())
	}
}

func TestRenderListsEveryRow(t *testing.T) {
	s := series(t, []float64{100, 100, 100}, nil)
	table, err := NewRunner(zerolog.Nop()).Run(s, Params{ShortWindow: 1, LongWindow: 2, InitialCash: 100000, RiskPerTrade: 0.0002})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var out bytes.Buffer
	if err := table.Render(&out); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	text := out.String()
	for _, day := range []string{"2010-01-01", "2010-01-02", "2010-01-03"} {
		if !strings.Contains(text, day) {
			t.Fatalf("missing row %s in %s", day, text)
		}
	}
	if !strings.Contains(text, "return=0.00%") {
		t.Fatalf("expected zero return, got %s", text)
	}
}
