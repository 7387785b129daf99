package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trendsim-go/internal/signal"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// LoadCSV reads date,open,high,low,close,volume rows. A leading header row is skipped.
func LoadCSV(r io.Reader) (signal.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var points []signal.PricePoint
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return signal.Series{}, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && isHeader(row) {
			continue
		}
		pt, err := parseRow(row)
		if err != nil {
			return signal.Series{}, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, pt)
	}
	return signal.NewSeries(points)
}

func isHeader(row []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	return err != nil
}

func parseRow(row []string) (signal.PricePoint, error) {
	ts, err := parseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return signal.PricePoint{}, err
	}
	var prices [4]float64
	for i := range prices {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return signal.PricePoint{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		prices[i] = v
	}
	vol, err := strconv.ParseUint(strings.TrimSpace(row[5]), 10, 64)
	if err != nil {
		return signal.PricePoint{}, fmt.Errorf("volume: %w", err)
	}
	return signal.PricePoint{Ts: ts, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3], Volume: vol}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
