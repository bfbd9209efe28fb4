package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the crossover analysis of one symbol on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Symbol    string
	Lookback  int // calendar days of history per run
	Crossover strategy.CrossoverConfig
	Ctx       context.Context

	now       func() time.Time
	mu        sync.Mutex
	lastAlert time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, symbol string, lookbackDays int, cfg strategy.CrossoverConfig) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Symbol:    collector.NormalizeSymbol(symbol),
		Lookback:  lookbackDays,
		Crossover: cfg,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// Register adds the watch task under a six-field cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, watching %s", s.Symbol)
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the watch task immediately.
func (s *Scheduler) RunNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := model.Date(s.now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -s.Lookback)
	log.Printf("[INFO] running watch task for %s [%s, %s)", s.Symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))

	series, err := s.Collector.Collect(s.Ctx, s.Symbol, start, end)
	if err != nil {
		log.Printf("[ERROR] watch collect %s: %v", s.Symbol, err)
		s.trySend(fmt.Sprintf("❌ %s data collection failed: %v", s.Symbol, err))
		return
	}

	res, err := strategy.Crossover(series.Bars, s.Crossover)
	if err != nil {
		log.Printf("[ERROR] watch crossover %s: %v", s.Symbol, err)
		return
	}

	// Only an event on the newest bar is reported, once per date.
	last := res.Aligned[len(res.Aligned)-1]
	if last == nil || last.Date.Equal(s.lastAlert) {
		log.Printf("[INFO] no new crossover for %s (%d bars)", s.Symbol, series.Len())
		return
	}
	s.lastAlert = last.Date
	s.trySend(notifier.FormatSignalAlert(s.Symbol, *last, s.Crossover) + "\n\n" + notifier.FormatWatchSummary(series, res))
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
