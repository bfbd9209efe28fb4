package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	r.messages = append(r.messages, text)
	return nil
}

var fixedNow = time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)

// flatThenJump is flat at 100 and jumps on the bar dated fixedNow.
func flatThenJump(n int, jump float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	first := model.Date(fixedNow).AddDate(0, 0, -(n - 1))
	for i := range bars {
		c := 100.0
		if i == n-1 {
			c = jump
		}
		bars[i] = model.OHLCV{Time: first.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return bars
}

func newTestScheduler(f collector.Fetcher) (*Scheduler, *recordingNotifier) {
	rn := &recordingNotifier{}
	s := NewScheduler(context.Background(), collector.NewCollector(f), rn, "aapl", 180, strategy.DefaultCrossover)
	s.now = func() time.Time { return fixedNow }
	return s, rn
}

func TestWatchTask_AlertsOnceForNewCrossover(t *testing.T) {
	mock := &collector.MockFetcher{DailyData: flatThenJump(80, 130)}
	s, rn := newTestScheduler(mock)

	s.RunNow()
	if len(rn.messages) != 1 {
		t.Fatalf("expected one alert, got %d", len(rn.messages))
	}
	for _, want := range []string{"AAPL BUY", "2024-06-03", "MA20 crossed above MA50", "Close: 130.00"} {
		if !strings.Contains(rn.messages[0], want) {
			t.Errorf("alert missing %q:\n%s", want, rn.messages[0])
		}
	}

	s.RunNow()
	if len(rn.messages) != 1 {
		t.Errorf("same event must not be sent twice, got %d messages", len(rn.messages))
	}
}

func TestWatchTask_NoEventNoAlert(t *testing.T) {
	mock := &collector.MockFetcher{DailyData: flatThenJump(80, 100)}
	s, rn := newTestScheduler(mock)
	s.RunNow()
	if len(rn.messages) != 0 {
		t.Errorf("expected no alert, got %v", rn.messages)
	}
}

func TestWatchTask_FetchFailureReported(t *testing.T) {
	mock := &collector.MockFetcher{Err: errors.New("boom")}
	s, rn := newTestScheduler(mock)
	s.RunNow()
	if len(rn.messages) != 1 || !strings.Contains(rn.messages[0], "AAPL data collection failed") {
		t.Errorf("expected failure notice, got %v", rn.messages)
	}
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(&collector.MockFetcher{Price: 100})
	if err := s.Register("0 30 22 * * 1-5"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid expression")
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}
