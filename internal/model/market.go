package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptySeries     = errors.New("price series is empty")
	ErrUnorderedSeries = errors.New("price series dates must be strictly increasing")
)

// OHLCV represents a single daily candlestick bar. Time is the trading date at UTC midnight.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the time-ordered daily bars of one symbol over [Start, End).
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	Start     time.Time
	End       time.Time
	Source    string
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Validate checks the series is non-empty with strictly increasing dates.
func (s *PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return ErrEmptySeries
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: %s at index %d", ErrUnorderedSeries,
				s.Bars[i].Time.Format("2006-01-02"), i)
		}
	}
	return nil
}

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
