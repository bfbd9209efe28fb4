package notifier

import (
	"fmt"
	"strings"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
)

const dateLayout = "2006-01-02"

// FormatSignalAlert formats a fresh crossover event into a Telegram message.
func FormatSignalAlert(symbol string, e model.SignalEvent, cfg strategy.CrossoverConfig) string {
	icon, verb := "🟢", "crossed above"
	if e.Kind == model.SignalSell {
		icon, verb = "🔴", "crossed below"
	}
	return fmt.Sprintf("%s <b>%s %s</b> | %s\n\nMA%d %s MA%d\nClose: %.2f",
		icon, symbol, e.Kind, e.Date.Format(dateLayout), cfg.Short, verb, cfg.Long, e.Price)
}

// FormatWatchSummary describes the state of the series after a watch run.
func FormatWatchSummary(series *model.PriceSeries, res *strategy.Result) string {
	var b strings.Builder
	n := series.Len()
	if n == 0 {
		return fmt.Sprintf("📊 <b>%s</b>: no data", series.Symbol)
	}
	last := series.Bars[n-1]
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", series.Symbol, last.Time.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", last.Close))

	for _, ma := range []model.MovingAverage{res.Short, res.Long} {
		if v, ok := ma.At(n - 1); ok {
			b.WriteString(fmt.Sprintf("%s: %.2f\n", ma.Name(), v))
		} else {
			b.WriteString(fmt.Sprintf("%s: n/a\n", ma.Name()))
		}
	}

	lows := make([]float64, n)
	highs := make([]float64, n)
	for i, bar := range series.Bars {
		lows[i], highs[i] = bar.Low, bar.High
	}
	low, high := calculator.Range(lows, highs)
	b.WriteString(fmt.Sprintf("Range (%d bars): %.2f - %.2f\n", n, low, high))

	if latest := res.Latest(); latest != nil {
		b.WriteString(fmt.Sprintf("Last signal: %s on %s @ %.2f", latest.Kind, latest.Date.Format(dateLayout), latest.Price))
	} else {
		b.WriteString("Last signal: none")
	}
	return b.String()
}
