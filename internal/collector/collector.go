package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// ErrInvalidRange is returned when end is not after start.
var ErrInvalidRange = errors.New("end date must be after start date")

// Collector resolves a symbol and date range into a normalized PriceSeries.
type Collector struct {
	Fetcher Fetcher
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, now: time.Now}
}

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Collect fetches daily bars for [start, end) in a single attempt. It returns
// ErrNoData when nothing is left after normalization.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	start, end = model.Date(start), model.Date(end)
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}

	bars := normalizeBars(raw, start, end)
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	if dropped := len(raw) - len(bars); dropped > 0 {
		log.Printf("[INFO] %s: dropped %d out-of-range or duplicate bars", symbol, dropped)
	}

	series := &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		Start:     start,
		End:       end,
		Source:    c.Fetcher.Name(),
		FetchedAt: c.now(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	log.Printf("[INFO] %s: %d bars from %s (%s to %s)", symbol, len(bars), series.Source,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return series, nil
}

// normalizeBars keeps bars dated in [start, end), sorted by date, one per day (last wins).
func normalizeBars(raw []model.OHLCV, start, end time.Time) []model.OHLCV {
	inRange := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		b.Time = model.Date(b.Time)
		if b.Time.Before(start) || !b.Time.Before(end) {
			continue
		}
		inRange = append(inRange, b)
	}
	sort.SliceStable(inRange, func(i, j int) bool { return inRange[i].Time.Before(inRange[j].Time) })

	bars := inRange[:0]
	for _, b := range inRange {
		if n := len(bars); n > 0 && bars[n-1].Time.Equal(b.Time) {
			bars[n-1] = b
			continue
		}
		bars = append(bars, b)
	}
	return bars
}
