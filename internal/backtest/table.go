package backtest

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"trendsim-go/internal/execution"
	"trendsim-go/internal/paper"
	"trendsim-go/internal/signal"
)

// Row joins one bar with its signal and the equity after it was processed.
type Row struct {
	Ts         time.Time
	Close      float64
	ShortMA    float64
	LongMA     float64
	Signal     signal.Position
	Transition signal.Transition
	Equity     float64
}

// Table is the in-memory result of a backtest.
type Table struct {
	RunID       uuid.UUID
	Strategy    string
	InitialCash float64
	Signals     []signal.Record
	Rows        []Row
	Fills       []execution.Fill
	Trades      []paper.Trade
	Skipped     []int
	Final       paper.State
	Incomplete  bool
}

// FinalEquity is the equity of the last processed bar, or the starting cash if none was.
func (t Table) FinalEquity() float64 {
	if len(t.Rows) == 0 {
		return t.InitialCash
	}
	return t.Rows[len(t.Rows)-1].Equity
}

// Return is the fractional change from starting cash to FinalEquity.
func (t Table) Return() float64 {
	if t.InitialCash == 0 {
		return 0
	}
	return t.FinalEquity()/t.InitialCash - 1
}

// Render writes the rows as an aligned text table followed by a one-line summary.
func (t Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\tclose\tshort_ma\tlong_ma\tsignal\ttransition\tequity\t")
	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\t%s\t%.2f\t\n",
			r.Ts.Format("2006-01-02"), r.Close, r.ShortMA, r.LongMA, r.Signal, r.Transition, r.Equity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return t.RenderSummary(w)
}

// RenderSummary writes the run identity, counts, final equity and completion status.
func (t Table) RenderSummary(w io.Writer) error {
	status := "complete"
	if t.Incomplete {
		status = "INCOMPLETE"
	}
	_, err := fmt.Fprintf(w, "%s run=%s bars=%d fills=%d trades=%d skipped=%d equity=%.2f return=%.2f%% (%s)\n",
		t.Strategy, t.RunID, len(t.Rows), len(t.Fills), len(t.Trades), len(t.Skipped), t.FinalEquity(), t.Return()*100, status)
	return err
}
