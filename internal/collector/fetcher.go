package collector

import (
	"context"
	"errors"
	"time"

	"StockAnalyzer/internal/model"
)

// ErrNoData is the empty result: the provider returned no rows for the symbol and range.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching daily market data over [start, end).
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
