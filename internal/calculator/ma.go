package calculator

import (
	"errors"

	"StockAnalyzer/internal/model"
)

// ErrInvalidWindow is returned for non-positive moving-average windows.
var ErrInvalidWindow = errors.New("window must be positive")

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// MovingAverage computes the rolling SMA of closes over window. The result has
// one entry per bar; the first window-1 entries are undefined. A window longer
// than the series yields an all-undefined column, not an error.
func MovingAverage(bars []model.OHLCV, window int) (model.MovingAverage, error) {
	if window <= 0 {
		return model.MovingAverage{}, ErrInvalidWindow
	}
	closes := extractCloses(bars)
	ma := model.MovingAverage{
		Window: window,
		Values: make([]float64, len(closes)),
		Valid:  make([]bool, len(closes)),
	}
	for i := window - 1; i < len(closes); i++ {
		// Summing each window afresh keeps results identical across recomputes.
		v, _ := CalculateSMA(closes[:i+1], window)
		ma.Values[i] = v
		ma.Valid[i] = true
	}
	return ma, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
