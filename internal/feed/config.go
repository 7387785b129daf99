package feed

import (
	"time"

	"github.com/rs/zerolog"

	"trendsim-go/internal/config"
)

// FromConfig builds a feed from the data section. An unparseable start date falls back to the default.
func FromConfig(d config.Data, log zerolog.Logger) *Feed {
	opts := []Option{
		WithBars(d.Bars),
		WithSeed(d.Seed),
		WithWalk(d.StartPrice, d.Volatility),
		WithCSVPath(d.CSVPath),
	}
	if d.Start != "" {
		if start, err := parseDate(d.Start); err == nil {
			opts = append(opts, WithStart(start, time.Duration(d.IntervalHours)*time.Hour))
		} else {
			log.Warn().Str("start", d.Start).Msg("unparseable start date, using default")
		}
	}
	return NewFeed(d.Provider, log, opts...)
}
