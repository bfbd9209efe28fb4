// Package session drives one interactive analysis: prompts, menu, custom
// moving averages and the crossover chart. All console I/O goes through the
// console package so the flow runs the same under a terminal or a test script.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/console"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
	"StockAnalyzer/internal/table"
)

const dateLayout = "2006-01-02"

// inputDateLayout also accepts unpadded months and days, e.g. 2024-1-5.
const inputDateLayout = "2006-1-2"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoSeries       = errors.New("no price series loaded")
)

// Session holds the state of one interactive run.
type Session struct {
	In        console.Prompter
	Out       *console.Output
	Collector *collector.Collector
	ChartsDir string
	Crossover strategy.CrossoverConfig

	series *model.PriceSeries
	table  *table.Table
}

// New creates a Session with the default 20/50 crossover.
func New(in console.Prompter, out *console.Output, col *collector.Collector, chartsDir string) *Session {
	return &Session{
		In:        in,
		Out:       out,
		Collector: col,
		ChartsDir: chartsDir,
		Crossover: strategy.DefaultCrossover,
	}
}

// Run executes the whole flow. Running out of input ends the session without error.
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, console.ErrNoInput) {
		s.Out.Println("\nInput closed, goodbye.")
		return nil
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	s.Out.Title("Welcome to Stock Market 💻 Analyzer 📊")

	symbol, err := s.PromptSymbol(ctx)
	if err != nil {
		return err
	}
	start, end, err := s.PromptDateRange(ctx)
	if err != nil {
		return err
	}

	series, err := s.Collector.Collect(ctx, symbol, start, end)
	if err != nil {
		if errors.Is(err, collector.ErrNoData) {
			s.Out.Error("No data found for %s in this date range.", symbol)
		} else {
			log.Printf("[ERROR] collect %s: %v", symbol, err)
			s.Out.Error("Could not retrieve data for %s: %v", symbol, err)
		}
		s.Out.Error("No valid data to proceed with analysis.")
		return nil
	}
	if err := s.Load(series); err != nil {
		return err
	}

	if err := s.MenuLoop(ctx); err != nil {
		return err
	}
	if err := s.CustomAverageLoop(ctx); err != nil {
		return err
	}
	return s.SignalChart()
}

// PromptSymbol asks until a non-empty symbol is given and returns it uppercased.
func (s *Session) PromptSymbol(ctx context.Context) (string, error) {
	for {
		answer, err := s.In.Ask(ctx, "Give me the symbol of the equities:")
		if err != nil {
			return "", err
		}
		if symbol := collector.NormalizeSymbol(answer); symbol != "" {
			return symbol, nil
		}
		s.Out.Warn("The symbol cannot be empty.")
	}
}

// PromptDateRange asks for start and end dates until both parse and end is after start.
func (s *Session) PromptDateRange(ctx context.Context) (time.Time, time.Time, error) {
	for {
		startText, err := s.In.Ask(ctx, "Give me the start date (YYYY-MM-DD):")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endText, err := s.In.Ask(ctx, "Give me the end date (YYYY-MM-DD):")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start, errStart := time.Parse(inputDateLayout, startText)
		end, errEnd := time.Parse(inputDateLayout, endText)
		if errStart != nil || errEnd != nil {
			s.Out.Warn("Invalid date format! Please try again.")
			continue
		}
		if !end.After(start) {
			s.Out.Warn("The end date must be after the start date!")
			continue
		}
		return start, end, nil
	}
}

// Load installs series and adds the short and long average columns.
func (s *Session) Load(series *model.PriceSeries) error {
	if err := series.Validate(); err != nil {
		return err
	}
	if series.Len() < s.Crossover.Long {
		s.Out.Warn("Not enough data for %d-day moving average. Some calculations may be skipped.", s.Crossover.Long)
	}
	tbl := table.FromSeries(series)
	for _, window := range []int{s.Crossover.Short, s.Crossover.Long} {
		ma, err := calculator.MovingAverage(series.Bars, window)
		if err != nil {
			return fmt.Errorf("moving average %d: %w", window, err)
		}
		if tbl, err = tbl.WithMovingAverage(ma); err != nil {
			return err
		}
	}
	s.series = series
	s.table = tbl
	return nil
}

// Table returns the current table, nil before Load.
func (s *Session) Table() *table.Table { return s.table }

// MenuLoop shows the menu and dispatches choices until the exit command.
func (s *Session) MenuLoop(ctx context.Context) error {
	for {
		s.Out.Println(menuText())
		answer, err := s.In.Ask(ctx, "Choose an option (1-7):")
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			s.Out.Warn("Invalid input. Please enter a number.")
			continue
		}
		exit, err := s.Dispatch(ctx, Command(choice))
		if errors.Is(err, ErrUnknownCommand) {
			s.Out.Warn("Invalid option.")
			continue
		}
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// CustomAverageLoop prints the table with row numbers, then charts custom
// moving averages until the user answers 0. Any other number asks for a window.
func (s *Session) CustomAverageLoop(ctx context.Context) error {
	if s.table == nil {
		return ErrNoSeries
	}
	s.Out.Heading("\n📊 Stock Data with Moving Averages and Row Number:\n")
	s.Out.Println(s.table.WithRowNumbers().Render())

	for {
		answer, err := s.In.Ask(ctx, "Press 1 to calculate a custom moving average, 0 to continue:")
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			s.Out.Warn("Invalid input.")
			continue
		}
		if choice == 0 {
			return nil
		}

		answer, err = s.In.Ask(ctx, "For how many days would you like to calculate the moving average?")
		if err != nil {
			return err
		}
		window, err := strconv.Atoi(answer)
		if err != nil || window <= 0 {
			s.Out.Warn("Invalid number.")
			continue
		}
		s.customAverage(window)
	}
}

func (s *Session) customAverage(window int) {
	ma, err := calculator.MovingAverage(s.series.Bars, window)
	if err != nil {
		s.Out.Warn("Invalid number.")
		return
	}
	tbl, err := s.table.WithMovingAverage(ma)
	if err != nil {
		log.Printf("[WARN] add %s column: %v", ma.Name(), err)
		s.Out.Error("Could not add %s: %v", ma.Name(), err)
		return
	}
	s.table = tbl
	if ma.DefinedCount() == 0 {
		s.Out.Warn("A %d-day moving average needs at least %d rows, only %d available. Nothing to chart.",
			window, window, s.series.Len())
		return
	}

	view, _ := s.table.Select([]string{"Close", ma.Name()})
	s.Out.Heading("\n%d-Day Moving Average for %s", window, s.series.Symbol)
	s.Out.Println(view.DropUndefined("Close", ma.Name()).Render())

	path := chart.Path(s.ChartsDir, s.series.Symbol, ma.Name())
	if err := chart.RenderMovingAverage(path, s.series.Symbol, s.series.Bars, ma); err != nil {
		log.Printf("[ERROR] render %s chart: %v", ma.Name(), err)
		s.Out.Error("Could not render chart: %v", err)
		return
	}
	s.Out.Success("Chart saved to %s", path)
}

// SignalChart runs the crossover detector, lists the events and renders the signal chart.
func (s *Session) SignalChart() error {
	if s.series == nil {
		return ErrNoSeries
	}
	res, err := strategy.Crossover(s.series.Bars, s.Crossover)
	if err != nil {
		return err
	}

	s.Out.Heading("\n%s Buy/Sell Signals (MA%d / MA%d crossover)", s.series.Symbol, s.Crossover.Short, s.Crossover.Long)
	if len(res.Events) == 0 {
		s.Out.Println("No crossover signals in this date range.")
	}
	for _, e := range res.Events {
		s.Out.Printf("%-4s  %s  @ %.2f\n", e.Kind, e.Date.Format(dateLayout), e.Price)
	}

	path := chart.Path(s.ChartsDir, s.series.Symbol, "signals")
	if err := chart.RenderSignals(path, s.series.Symbol, s.series.Bars, res.Short, res.Long, res.Events); err != nil {
		log.Printf("[ERROR] render signal chart: %v", err)
		s.Out.Error("Could not render chart: %v", err)
		return nil
	}
	s.Out.Success("Chart saved to %s", path)
	return nil
}
