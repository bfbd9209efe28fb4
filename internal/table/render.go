package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// MaxRenderRows is the row count above which Render shows only the head and tail.
const MaxRenderRows = 60

const edgeRows = 5

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	indexStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6B7280"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Render draws the table. Long tables are truncated to their first and last
// rows with an ellipsis row and a shape footer.
func (t *Table) Render() string {
	headers := make([]string, 0, len(t.Columns)+2)
	if t.RowNumbers {
		headers = append(headers, "#")
	}
	headers = append(headers, "Date")
	headers = append(headers, t.ColumnNames()...)

	rows := make([][]string, 0, t.Len())
	truncated := t.Len() > MaxRenderRows
	for i := 0; i < t.Len(); i++ {
		if truncated && i == edgeRows {
			rows = append(rows, ellipsisRow(len(headers)))
			i = t.Len() - edgeRows
		}
		rows = append(rows, t.formatRow(i))
	}

	indexCols := 1
	if t.RowNumbers {
		indexCols = 2
	}
	tbl := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return headerStyle
			case col < indexCols:
				return indexStyle
			default:
				return cellStyle
			}
		})

	out := tbl.Render()
	if truncated || t.Len() == 0 {
		out += "\n" + footerStyle.Render(fmt.Sprintf("[%d rows x %d columns]", t.Len(), len(t.Columns)))
	}
	return out
}

func (t *Table) formatRow(i int) []string {
	row := make([]string, 0, len(t.Columns)+2)
	if t.RowNumbers {
		row = append(row, strconv.Itoa(t.rowIDs[i]))
	}
	row = append(row, t.Dates[i].Format("2006-01-02"))
	for _, c := range t.Columns {
		v, ok := c.at(i)
		if !ok {
			row = append(row, "NaN")
			continue
		}
		row = append(row, formatValue(c.Name, v))
	}
	return row
}

func ellipsisRow(n int) []string {
	row := make([]string, n)
	for i := range row {
		row[i] = "..."
	}
	return row
}

func formatValue(column string, v float64) string {
	if column == "Volume" {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSummary draws a Describe result with one column per table column.
func RenderSummary(summaries []ColumnSummary) string {
	headers := []string{""}
	for _, s := range summaries {
		headers = append(headers, s.Name)
	}
	stats := []struct {
		label string
		get   func(ColumnSummary) float64
	}{
		{"count", func(s ColumnSummary) float64 { return float64(s.Summary.Count) }},
		{"mean", func(s ColumnSummary) float64 { return s.Summary.Mean }},
		{"std", func(s ColumnSummary) float64 { return s.Summary.Std }},
		{"min", func(s ColumnSummary) float64 { return s.Summary.Min }},
		{"25%", func(s ColumnSummary) float64 { return s.Summary.Q25 }},
		{"50%", func(s ColumnSummary) float64 { return s.Summary.Q50 }},
		{"75%", func(s ColumnSummary) float64 { return s.Summary.Q75 }},
		{"max", func(s ColumnSummary) float64 { return s.Summary.Max }},
	}
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		row := []string{st.label}
		for _, s := range summaries {
			v := st.get(s)
			if math.IsNaN(v) {
				row = append(row, "NaN")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		rows = append(rows, row)
	}
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
