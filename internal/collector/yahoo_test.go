package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chartJSON = `{"chart":{"result":[{"meta":{"gmtoffset":-18000},
"timestamp":[1704292200,1704205800,1704378600],
"indicators":{"quote":[{
"open":[101.0,100.0,null],"high":[102.0,101.0,null],"low":[99.0,98.0,null],
"close":[101.5,100.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`

const notFoundJSON = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestYahoo(t *testing.T, status int, body string) (*YahooFetcher, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	return f, &got
}

func TestYahooFetcher_DecodesChart(t *testing.T) {
	f, req := newTestYahoo(t, http.StatusOK, chartJSON)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", day("2024-01-01"), day("2024-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars (null bar skipped), got %d", len(bars))
	}
	if !bars[0].Time.Equal(day("2024-01-02")) || bars[0].Close != 100.5 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if !bars[1].Time.Equal(day("2024-01-03")) || bars[1].Volume != 2000 {
		t.Errorf("unexpected second bar: %+v", bars[1])
	}
	if req.URL.Path != "/v8/finance/chart/AAPL" {
		t.Errorf("unexpected path %s", req.URL.Path)
	}
	if req.URL.Query().Get("period1") != "1704067200" || req.URL.Query().Get("interval") != "1d" {
		t.Errorf("unexpected query %s", req.URL.RawQuery)
	}
}

func TestYahooFetcher_NotFoundIsEmptyResult(t *testing.T) {
	f, _ := newTestYahoo(t, http.StatusNotFound, notFoundJSON)
	_, err := f.FetchDailyBars(context.Background(), "ZZZZ", day("2024-01-01"), day("2024-01-10"))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f, _ := newTestYahoo(t, http.StatusBadGateway, "upstream down")
	_, err := f.FetchDailyBars(context.Background(), "AAPL", day("2024-01-01"), day("2024-01-10"))
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	f, req := newTestYahoo(t, http.StatusOK, chartJSON)
	if _, err := f.FetchDailyBars(context.Background(), "SPX500", day("2024-01-01"), day("2024-01-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URL.Path != "/v8/finance/chart/^GSPC" {
		t.Errorf("expected mapped symbol path, got %s", req.URL.Path)
	}
}
