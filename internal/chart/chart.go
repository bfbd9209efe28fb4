// Package chart renders price and moving-average charts to PNG files.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"StockAnalyzer/internal/model"
)

var (
	colorClose = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorMA    = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorGreen = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorRed   = color.RGBA{R: 214, G: 39, B: 40, A: 255}

	width  = 12 * vg.Inch
	height = 6 * vg.Inch
	dashes = []vg.Length{vg.Points(6), vg.Points(4)}
)

// ErrNothingToPlot is returned when no point of the requested series is defined.
var ErrNothingToPlot = errors.New("nothing to plot")

// Path builds the output file for a chart, e.g. charts/AAPL_MA30.png.
func Path(dir, symbol, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", strings.ToUpper(symbol), name))
}

// RenderMovingAverage plots the close price and ma over the rows where ma is defined.
func RenderMovingAverage(path, symbol string, bars []model.OHLCV, ma model.MovingAverage) error {
	var closes, avg plotter.XYs
	for i, b := range bars {
		v, ok := ma.At(i)
		if !ok {
			continue
		}
		x := float64(b.Time.Unix())
		closes = append(closes, plotter.XY{X: x, Y: b.Close})
		avg = append(avg, plotter.XY{X: x, Y: v})
	}
	if len(closes) == 0 {
		return ErrNothingToPlot
	}

	p := newPlot(fmt.Sprintf("%s - Closing Price and %d-Day Moving Average", symbol, ma.Window))
	if err := addLine(p, closes, "Closing Price", colorClose, false); err != nil {
		return err
	}
	if err := addLine(p, avg, fmt.Sprintf("%d-Day MA", ma.Window), colorMA, true); err != nil {
		return err
	}
	return save(p, path)
}

// RenderSignals plots close, both averages and the Buy/Sell markers.
func RenderSignals(path, symbol string, bars []model.OHLCV, short, long model.MovingAverage, events []model.SignalEvent) error {
	if len(bars) == 0 {
		return ErrNothingToPlot
	}
	closes := make(plotter.XYs, len(bars))
	var shortXY, longXY plotter.XYs
	for i, b := range bars {
		x := float64(b.Time.Unix())
		closes[i] = plotter.XY{X: x, Y: b.Close}
		if v, ok := short.At(i); ok {
			shortXY = append(shortXY, plotter.XY{X: x, Y: v})
		}
		if v, ok := long.At(i); ok {
			longXY = append(longXY, plotter.XY{X: x, Y: v})
		}
	}

	p := newPlot(fmt.Sprintf("%s Stock Price with Buy/Sell Signals", symbol))
	if err := addLine(p, closes, "Closing Price", colorClose, false); err != nil {
		return err
	}
	if len(shortXY) > 0 {
		if err := addLine(p, shortXY, fmt.Sprintf("%d-day MA", short.Window), colorGreen, true); err != nil {
			return err
		}
	}
	if len(longXY) > 0 {
		if err := addLine(p, longXY, fmt.Sprintf("%d-day MA", long.Window), colorRed, true); err != nil {
			return err
		}
	}

	var buys, sells plotter.XYs
	for _, e := range events {
		xy := plotter.XY{X: float64(e.Date.Unix()), Y: e.Price}
		if e.Kind == model.SignalBuy {
			buys = append(buys, xy)
		} else {
			sells = append(sells, xy)
		}
	}
	if err := addMarkers(p, buys, "Buy Signal", colorGreen, draw.TriangleGlyph{}); err != nil {
		return err
	}
	if err := addMarkers(p, sells, "Sell Signal", colorRed, draw.CircleGlyph{}); err != nil {
		return err
	}
	return save(p, path)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price ($)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, xys plotter.XYs, label string, c color.Color, dashed bool) error {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("%s line: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	if dashed {
		line.Dashes = dashes
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func addMarkers(p *plot.Plot, xys plotter.XYs, label string, c color.Color, shape draw.GlyphDrawer) error {
	if len(xys) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("%s markers: %w", label, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(5)
	sc.GlyphStyle.Shape = shape
	p.Add(sc)
	p.Legend.Add(label, sc)
	return nil
}

func save(p *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
