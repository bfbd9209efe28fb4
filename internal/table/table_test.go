package table

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
)

func testSeries(n int) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 1000 + float64(i)}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestFromSeries_Columns(t *testing.T) {
	tbl := FromSeries(testSeries(3))
	want := []string{"Open", "High", "Low", "Close", "Volume"}
	if !reflect.DeepEqual(tbl.ColumnNames(), want) {
		t.Errorf("expected %v, got %v", want, tbl.ColumnNames())
	}
	if tbl.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", tbl.Len())
	}
}

func TestHeadTail(t *testing.T) {
	tbl := FromSeries(testSeries(8))
	head := tbl.Head(5)
	tail := tbl.Tail(5)
	if head.Len() != 5 || tail.Len() != 5 {
		t.Fatalf("expected 5 rows each, got %d/%d", head.Len(), tail.Len())
	}
	if c, _ := head.Column("Close"); c.Values[0] != 100 {
		t.Errorf("head should start at the first row, got %f", c.Values[0])
	}
	if c, _ := tail.Column("Close"); c.Values[4] != 107 {
		t.Errorf("tail should end at the last row, got %f", c.Values[4])
	}
	if FromSeries(testSeries(2)).Head(5).Len() != 2 {
		t.Error("head of a short table should return every row")
	}
}

func TestSelect_ReportsInvalid(t *testing.T) {
	tbl := FromSeries(testSeries(3))
	view, invalid := tbl.Select(ParseColumnList("Close, Bogus"))
	if !reflect.DeepEqual(view.ColumnNames(), []string{"Close"}) {
		t.Errorf("expected only Close, got %v", view.ColumnNames())
	}
	if !reflect.DeepEqual(invalid, []string{"Bogus"}) {
		t.Errorf("expected Bogus invalid, got %v", invalid)
	}
}

func TestParseColumnList(t *testing.T) {
	got := ParseColumnList(" Open ,, Close,")
	if !reflect.DeepEqual(got, []string{"Open", "Close"}) {
		t.Errorf("unexpected parse: %v", got)
	}
}

func TestFilterClose(t *testing.T) {
	tbl := FromSeries(testSeries(10)).FilterClose(105)
	if tbl.Len() != 4 {
		t.Fatalf("expected 4 rows above 105, got %d", tbl.Len())
	}
	c, _ := tbl.Column("Close")
	for _, v := range c.Values {
		if v <= 105 {
			t.Errorf("row with close %f should be filtered out", v)
		}
	}
}

func TestWithMovingAverage_AndDropUndefined(t *testing.T) {
	series := testSeries(6)
	ma, _ := calculator.MovingAverage(series.Bars, 3)
	tbl, err := FromSeries(series).WithMovingAverage(ma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tbl.Column("MA3"); !ok {
		t.Fatal("expected MA3 column")
	}
	again, _ := tbl.WithMovingAverage(ma)
	if len(again.ColumnNames()) != len(tbl.ColumnNames()) {
		t.Error("adding the same average twice should replace the column")
	}
	view, _ := tbl.Select([]string{"Close", "MA3"})
	dropped := view.DropUndefined("Close", "MA3")
	if dropped.Len() != 4 {
		t.Errorf("expected 4 defined rows, got %d", dropped.Len())
	}
	if tbl.DropUndefined("MA99").Len() != 0 {
		t.Error("unknown column should drop every row")
	}

	short := model.MovingAverage{Window: 2, Values: []float64{1}, Valid: []bool{true}}
	if _, err := FromSeries(series).WithMovingAverage(short); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestDescribe_UsesDefinedValuesOnly(t *testing.T) {
	series := testSeries(5)
	ma, _ := calculator.MovingAverage(series.Bars, 4)
	tbl, _ := FromSeries(series).WithMovingAverage(ma)
	for _, s := range tbl.Describe() {
		if s.Name == "MA4" && s.Summary.Count != 2 {
			t.Errorf("expected 2 defined MA4 values, got %d", s.Summary.Count)
		}
		if s.Name == "Close" && s.Summary.Mean != 102 {
			t.Errorf("expected close mean 102, got %f", s.Summary.Mean)
		}
	}
	if out := RenderSummary(tbl.Describe()); !strings.Contains(out, "count") || !strings.Contains(out, "MA4") {
		t.Errorf("summary render missing labels:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	series := testSeries(3)
	ma, _ := calculator.MovingAverage(series.Bars, 2)
	tbl, _ := FromSeries(series).WithMovingAverage(ma)

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Date,Open,High,Low,Close,Volume,MA2" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "2024-01-01,99,101,98,100,1000," {
		t.Errorf("undefined MA should be an empty cell, got %q", lines[1])
	}
	if lines[2] != "2024-01-02,100,102,99,101,1001,100.5" {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := FromSeries(testSeries(2)).ExportCSV(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.Count(string(data), "\n") != 3 {
		t.Errorf("expected header plus 2 rows, got:\n%s", data)
	}
	if err := FromSeries(testSeries(2)).ExportCSV(filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRender_TruncatesLongTables(t *testing.T) {
	out := FromSeries(testSeries(100)).WithRowNumbers().Render()
	if !strings.Contains(out, "...") || !strings.Contains(out, "[100 rows x 5 columns]") {
		t.Errorf("expected truncated render with footer:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-01") || !strings.Contains(out, "2024-04-09") {
		t.Errorf("expected first and last dates in render:\n%s", out)
	}
	if strings.Contains(out, "2024-02-15") {
		t.Error("middle rows should be elided")
	}
	short := FromSeries(testSeries(3)).Render()
	if strings.Contains(short, "...") {
		t.Errorf("short table should not be truncated:\n%s", short)
	}
}
