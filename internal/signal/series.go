package signal

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrUnorderedSeries is returned when bar timestamps are not strictly increasing.
	ErrUnorderedSeries = errors.New("timestamps must be strictly increasing")
	// ErrNonFinitePrice is returned when a bar carries a NaN or infinite price.
	ErrNonFinitePrice = errors.New("price must be finite")
	// ErrEmptySeries is returned by consumers that need at least one bar.
	ErrEmptySeries = errors.New("price series is empty")
)

// Series is an immutable, time-ordered sequence of bars.
type Series struct {
	points []PricePoint
}

// NewSeries copies points into a Series after checking timestamp ordering and prices.
// An empty input yields an empty Series; consumers decide whether that is an error.
func NewSeries(points []PricePoint) (Series, error) {
	for i, p := range points {
		if !finite(p.Open) || !finite(p.High) || !finite(p.Low) || !finite(p.Close) {
			return Series{}, fmt.Errorf("bar %d at %s: %w", i, p.Ts.Format(time.RFC3339), ErrNonFinitePrice)
		}
		if i > 0 && !p.Ts.After(points[i-1].Ts) {
			return Series{}, fmt.Errorf("bar %d at %s: %w", i, p.Ts.Format(time.RFC3339), ErrUnorderedSeries)
		}
	}
	out := make([]PricePoint, len(points))
	copy(out, points)
	return Series{points: out}, nil
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.points) }

// At returns the bar at position i.
func (s Series) At(i int) PricePoint { return s.points[i] }

// Closes returns the close prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Close
	}
	return out
}

// IndexOf locates the bar stamped exactly ts.
func (s Series) IndexOf(ts time.Time) (int, bool) {
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Ts.Before(ts)
	})
	if i < len(s.points) && s.points[i].Ts.Equal(ts) {
		return i, true
	}
	return -1, false
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
