package chart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
)

func wave(n int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64((i/15)%2*20) + float64(i%15)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func TestRenderMovingAverage(t *testing.T) {
	bars := wave(80)
	ma, _ := calculator.MovingAverage(bars, 10)
	path := Path(t.TempDir(), "aapl", ma.Name())
	if filepath.Base(path) != "AAPL_MA10.png" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
	if err := RenderMovingAverage(path, "AAPL", bars, ma); err != nil {
		t.Fatalf("render: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected a non-empty PNG, stat err=%v", err)
	}
}

func TestRenderMovingAverage_NothingDefined(t *testing.T) {
	bars := wave(5)
	ma, _ := calculator.MovingAverage(bars, 10)
	err := RenderMovingAverage(filepath.Join(t.TempDir(), "x.png"), "AAPL", bars, ma)
	if !errors.Is(err, ErrNothingToPlot) {
		t.Errorf("expected ErrNothingToPlot, got %v", err)
	}
}

func TestRenderSignals(t *testing.T) {
	bars := wave(200)
	res, err := strategy.Crossover(bars, strategy.CrossoverConfig{Short: 5, Long: 20})
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	if len(res.Events) == 0 {
		t.Fatal("expected the wave to produce events")
	}
	path := filepath.Join(t.TempDir(), "nested", "AAPL_signals.png")
	if err := RenderSignals(path, "AAPL", bars, res.Short, res.Long, res.Events); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected chart file: %v", err)
	}
}
