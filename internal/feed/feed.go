// Package feed produces the price series a backtest runs on.
package feed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trendsim-go/internal/signal"
)

const (
	// ProviderRandom draws every OHLCV field independently from fixed uniform ranges.
	ProviderRandom = "random"
	// ProviderWalk emits a coherent random walk where each bar's range contains open and close.
	ProviderWalk = "walk"
	// ProviderCSV reads bars from a CSV file.
	ProviderCSV = "csv"
)

const (
	defaultBars       = 1000
	defaultInterval   = 24 * time.Hour
	defaultStartPrice = 150.0
	defaultVolatility = 0.02
)

var defaultStart = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// Feed builds a price series from the configured provider.
type Feed struct {
	provider   string
	log        zerolog.Logger
	bars       int
	seed       int64
	start      time.Time
	interval   time.Duration
	startPrice float64
	volatility float64
	csvPath    string
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithBars sets how many bars synthetic providers generate.
func WithBars(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.bars = n
		}
	}
}

// WithSeed fixes the random source so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(f *Feed) { f.seed = seed }
}

// WithStart sets the first bar timestamp and the spacing between bars.
func WithStart(start time.Time, interval time.Duration) Option {
	return func(f *Feed) {
		if !start.IsZero() {
			f.start = start
		}
		if interval > 0 {
			f.interval = interval
		}
	}
}

// WithWalk tunes the random walk's opening price and per-bar volatility.
func WithWalk(startPrice, volatility float64) Option {
	return func(f *Feed) {
		if startPrice > 0 {
			f.startPrice = startPrice
		}
		if volatility > 0 {
			f.volatility = volatility
		}
	}
}

// WithCSVPath points the csv provider at a file.
func WithCSVPath(path string) Option {
	return func(f *Feed) { f.csvPath = path }
}

// NewFeed constructs a feed backed by the requested provider.
func NewFeed(provider string, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderRandom
	}
	f := &Feed{
		provider:   strings.ToLower(provider),
		log:        log,
		bars:       defaultBars,
		seed:       1,
		start:      defaultStart,
		interval:   defaultInterval,
		startPrice: defaultStartPrice,
		volatility: defaultVolatility,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Series produces the full series, checking ctx between bars.
func (f *Feed) Series(ctx context.Context) (signal.Series, error) {
	var (
		points []signal.PricePoint
		err    error
	)
	switch f.provider {
	case ProviderRandom:
		points, err = f.random(ctx)
	case ProviderWalk:
		points, err = f.walk(ctx)
	case ProviderCSV:
		return f.loadCSV()
	default:
		return signal.Series{}, fmt.Errorf("unknown feed provider %q", f.provider)
	}
	if err != nil {
		return signal.Series{}, err
	}
	f.log.Debug().Str("provider", f.provider).Int("bars", len(points)).Int64("seed", f.seed).Msg("series generated")
	return signal.NewSeries(points)
}

func (f *Feed) random(ctx context.Context) ([]signal.PricePoint, error) {
	r := rand.New(rand.NewSource(f.seed))
	uniform := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }

	out := make([]signal.PricePoint, 0, f.bars)
	ts := f.start
	for i := 0; i < f.bars; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, signal.PricePoint{
			Ts:     ts,
			Open:   uniform(100, 200),
			High:   uniform(200, 250),
			Low:    uniform(80, 150),
			Close:  uniform(120, 180),
			Volume: uint64(10000 + r.Intn(40000)),
		})
		ts = ts.Add(f.interval)
	}
	return out, nil
}

func (f *Feed) walk(ctx context.Context) ([]signal.PricePoint, error) {
	r := rand.New(rand.NewSource(f.seed))

	out := make([]signal.PricePoint, 0, f.bars)
	ts := f.start
	px := f.startPrice
	for i := 0; i < f.bars; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		open := px
		ret := (r.Float64() - 0.5) * 2.0 * f.volatility
		close := open * (1.0 + ret)
		high := math.Max(open, close) * (1.0 + r.Float64()*f.volatility*0.5)
		low := math.Min(open, close) * (1.0 - r.Float64()*f.volatility*0.5)
		out = append(out, signal.PricePoint{
			Ts:     ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: uint64(10000 + r.Intn(5000)),
		})
		px = close
		ts = ts.Add(f.interval)
	}
	return out, nil
}

func (f *Feed) loadCSV() (signal.Series, error) {
	if f.csvPath == "" {
		return signal.Series{}, fmt.Errorf("csv provider requires a path")
	}
	file, err := os.Open(f.csvPath)
	if err != nil {
		return signal.Series{}, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	series, err := LoadCSV(file)
	if err != nil {
		return signal.Series{}, fmt.Errorf("%s: %w", f.csvPath, err)
	}
	f.log.Debug().Str("path", f.csvPath).Int("bars", series.Len()).Msg("series loaded")
	return series, nil
}
