package collector

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

// FinanceGoFetcher implements Fetcher with the piquette/finance-go chart iterator.
type FinanceGoFetcher struct{}

func NewFinanceGoFetcher() *FinanceGoFetcher { return &FinanceGoFetcher{} }

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	var raw []finance.ChartBar
	for iter.Next() {
		raw = append(raw, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go %s: %w", symbol, err)
	}

	bars := barsFromChart(raw, iter.Meta().Gmtoffset)
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// barsFromChart converts chart bars, dating each one in exchange time.
// Bars without a close are dropped.
func barsFromChart(raw []finance.ChartBar, gmtoffset int) []model.OHLCV {
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		cls := toFloat64(b.Close)
		if cls == 0 {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   model.Date(time.Unix(int64(b.Timestamp)+int64(gmtoffset), 0).UTC()),
			Open:   toFloat64(b.Open),
			High:   toFloat64(b.High),
			Low:    toFloat64(b.Low),
			Close:  cls,
			Volume: float64(b.Volume),
		})
	}
	return bars
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
