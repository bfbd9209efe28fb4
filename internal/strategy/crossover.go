package strategy

import (
	"fmt"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
)

// CrossoverConfig holds the short and long moving-average windows.
type CrossoverConfig struct {
	Short int
	Long  int
}

// DefaultCrossover is the 20/50 day rule.
var DefaultCrossover = CrossoverConfig{Short: 20, Long: 50}

// Result bundles the averages and events of one crossover pass.
type Result struct {
	Short   model.MovingAverage
	Long    model.MovingAverage
	Aligned []*model.SignalEvent
	Events  []model.SignalEvent
}

// DetectSignals scans bars once, left to right, and returns one slot per bar:
// a Buy when short > long while flat, a Sell when short < long while in
// position, nil otherwise. Equal or undefined averages never change state.
// Indices missing from either average count as undefined.
func DetectSignals(bars []model.OHLCV, short, long model.MovingAverage) []*model.SignalEvent {
	aligned := make([]*model.SignalEvent, len(bars))
	inPosition := false
	for i, bar := range bars {
		s, okS := short.At(i)
		l, okL := long.At(i)
		if !okS || !okL {
			continue
		}
		switch {
		case s > l && !inPosition:
			aligned[i] = &model.SignalEvent{Index: i, Date: bar.Time, Price: bar.Close, Kind: model.SignalBuy}
			inPosition = true
		case s < l && inPosition:
			aligned[i] = &model.SignalEvent{Index: i, Date: bar.Time, Price: bar.Close, Kind: model.SignalSell}
			inPosition = false
		}
	}
	return aligned
}

// Events compacts an aligned slice to its emitted events.
func Events(aligned []*model.SignalEvent) []model.SignalEvent {
	var events []model.SignalEvent
	for _, e := range aligned {
		if e != nil {
			events = append(events, *e)
		}
	}
	return events
}

// Crossover computes both averages for cfg and runs the detector.
func Crossover(bars []model.OHLCV, cfg CrossoverConfig) (*Result, error) {
	short, err := calculator.MovingAverage(bars, cfg.Short)
	if err != nil {
		return nil, fmt.Errorf("short average: %w", err)
	}
	long, err := calculator.MovingAverage(bars, cfg.Long)
	if err != nil {
		return nil, fmt.Errorf("long average: %w", err)
	}
	aligned := DetectSignals(bars, short, long)
	return &Result{
		Short:   short,
		Long:    long,
		Aligned: aligned,
		Events:  Events(aligned),
	}, nil
}

// Latest returns the most recent event, or nil when none fired.
func (r *Result) Latest() *model.SignalEvent {
	if len(r.Events) == 0 {
		return nil
	}
	return &r.Events[len(r.Events)-1]
}
