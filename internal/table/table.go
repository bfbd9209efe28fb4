// Package table is the date-indexed price table the interactive menu browses and exports.
package table

import (
	"fmt"
	"strings"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
)

// Column is a named float column; Valid marks defined cells.
type Column struct {
	Name   string
	Values []float64
	Valid  []bool
}

func (c Column) at(i int) (float64, bool) {
	if i < 0 || i >= len(c.Values) || !c.Valid[i] {
		return 0, false
	}
	return c.Values[i], true
}

// Table is an immutable view: every operation returns a new Table.
type Table struct {
	Symbol     string
	Dates      []time.Time
	Columns    []Column
	RowNumbers bool
	// rowIDs are positions in the original series, shown when RowNumbers is set.
	rowIDs []int
}

// FromSeries builds the base table with Open, High, Low, Close and Volume columns.
func FromSeries(series *model.PriceSeries) *Table {
	n := len(series.Bars)
	t := &Table{
		Symbol: series.Symbol,
		Dates:  make([]time.Time, n),
		rowIDs: make([]int, n),
	}
	open, high, low, cls, vol := newColumn("Open", n), newColumn("High", n), newColumn("Low", n),
		newColumn("Close", n), newColumn("Volume", n)
	for i, b := range series.Bars {
		t.Dates[i] = b.Time
		t.rowIDs[i] = i
		open.set(i, b.Open)
		high.set(i, b.High)
		low.set(i, b.Low)
		cls.set(i, b.Close)
		vol.set(i, b.Volume)
	}
	t.Columns = []Column{open, high, low, cls, vol}
	return t
}

func newColumn(name string, n int) Column {
	return Column{Name: name, Values: make([]float64, n), Valid: make([]bool, n)}
}

func (c Column) set(i int, v float64) {
	c.Values[i] = v
	c.Valid[i] = true
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Dates) }

// ColumnNames lists the data columns in order (the date index excluded).
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// WithMovingAverage adds ma as a column, replacing one with the same name.
// ma must be aligned with the table rows.
func (t *Table) WithMovingAverage(ma model.MovingAverage) (*Table, error) {
	if ma.Len() != t.Len() {
		return nil, fmt.Errorf("%s has %d values, table has %d rows", ma.Name(), ma.Len(), t.Len())
	}
	col := Column{Name: ma.Name(), Values: append([]float64(nil), ma.Values...), Valid: append([]bool(nil), ma.Valid...)}
	out := t.shallowCopy()
	out.Columns = make([]Column, 0, len(t.Columns)+1)
	replaced := false
	for _, c := range t.Columns {
		if c.Name == col.Name {
			out.Columns = append(out.Columns, col)
			replaced = true
			continue
		}
		out.Columns = append(out.Columns, c)
	}
	if !replaced {
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

// WithRowNumbers returns a copy that renders a leading row number column.
func (t *Table) WithRowNumbers() *Table {
	out := t.shallowCopy()
	out.RowNumbers = true
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	return t.rows(indexRange(0, n))
}

// Tail returns the last n rows.
func (t *Table) Tail(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	return t.rows(indexRange(t.Len()-n, t.Len()))
}

// Select keeps the named columns in the requested order and reports unknown names.
func (t *Table) Select(names []string) (*Table, []string) {
	out := t.shallowCopy()
	out.Columns = nil
	var invalid []string
	for _, name := range names {
		if c, ok := t.Column(name); ok {
			out.Columns = append(out.Columns, c)
		} else {
			invalid = append(invalid, name)
		}
	}
	return out, invalid
}

// ParseColumnList splits a comma separated list of column names.
func ParseColumnList(input string) []string {
	var names []string
	for _, part := range strings.Split(input, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FilterClose keeps rows whose Close is strictly above threshold.
func (t *Table) FilterClose(threshold float64) *Table {
	cls, _ := t.Column("Close")
	var idx []int
	for i := range t.Dates {
		if v, ok := cls.at(i); ok && v > threshold {
			idx = append(idx, i)
		}
	}
	return t.rows(idx)
}

// DropUndefined keeps rows where every named column is defined. Unknown names drop every row.
func (t *Table) DropUndefined(names ...string) *Table {
	var idx []int
rows:
	for i := range t.Dates {
		for _, name := range names {
			c, ok := t.Column(name)
			if !ok {
				continue rows
			}
			if _, ok := c.at(i); !ok {
				continue rows
			}
		}
		idx = append(idx, i)
	}
	return t.rows(idx)
}

// ColumnSummary pairs a column name with its statistics.
type ColumnSummary struct {
	Name    string
	Summary calculator.Summary
}

// Describe summarizes the defined values of every column.
func (t *Table) Describe() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for _, c := range t.Columns {
		var values []float64
		for i := range c.Values {
			if v, ok := c.at(i); ok {
				values = append(values, v)
			}
		}
		out = append(out, ColumnSummary{Name: c.Name, Summary: calculator.Describe(values)})
	}
	return out
}

func (t *Table) shallowCopy() *Table {
	out := *t
	return &out
}

func (t *Table) rows(idx []int) *Table {
	out := t.shallowCopy()
	out.Dates = make([]time.Time, len(idx))
	out.rowIDs = make([]int, len(idx))
	out.Columns = make([]Column, len(t.Columns))
	for ci, c := range t.Columns {
		out.Columns[ci] = Column{Name: c.Name, Values: make([]float64, len(idx)), Valid: make([]bool, len(idx))}
	}
	for k, i := range idx {
		out.Dates[k] = t.Dates[i]
		out.rowIDs[k] = t.rowIDs[i]
		for ci, c := range t.Columns {
			out.Columns[ci].Values[k] = c.Values[i]
			out.Columns[ci].Valid[k] = c.Valid[i]
		}
	}
	return out
}

func indexRange(from, to int) []int {
	idx := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return idx
}
