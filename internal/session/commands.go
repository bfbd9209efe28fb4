package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"StockAnalyzer/internal/table"
)

// Command identifies a menu entry.
type Command int

const (
	CmdHead Command = iota + 1
	CmdTail
	CmdColumns
	CmdFilterClose
	CmdSummary
	CmdExport
	CmdExit
)

const previewRows = 5

type handlerFunc func(s *Session, ctx context.Context) (exit bool, err error)

type menuEntry struct {
	label string
	run   handlerFunc
}

// menu is the dispatch table behind the interactive menu.
var menu = map[Command]menuEntry{
	CmdHead:        {"Show first 5 rows", (*Session).showHead},
	CmdTail:        {"Show last 5 rows", (*Session).showTail},
	CmdColumns:     {"Show columns", (*Session).showColumns},
	CmdFilterClose: {"Filter by Close price > value", (*Session).filterClose},
	CmdSummary:     {"Show summary statistics", (*Session).showSummary},
	CmdExport:      {"Export data to CSV", (*Session).exportCSV},
	CmdExit:        {"Exit menu", (*Session).exitMenu},
}

// Dispatch runs one menu command against the loaded data.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (exit bool, err error) {
	entry, ok := menu[cmd]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownCommand, cmd)
	}
	if s.table == nil {
		return false, ErrNoSeries
	}
	return entry.run(s, ctx)
}

func menuText() string {
	var b strings.Builder
	b.WriteString("\n📌 Menu Options:\n")
	for cmd := CmdHead; cmd <= CmdExit; cmd++ {
		b.WriteString(fmt.Sprintf("%d- %s\n", cmd, menu[cmd].label))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) showHead(_ context.Context) (bool, error) {
	s.Out.Println(s.table.Head(previewRows).Render())
	return false, nil
}

func (s *Session) showTail(_ context.Context) (bool, error) {
	s.Out.Println(s.table.Tail(previewRows).Render())
	return false, nil
}

func (s *Session) showColumns(ctx context.Context) (bool, error) {
	s.Out.Printf("\nAvailable columns: [%s]\n", strings.Join(s.table.ColumnNames(), ", "))
	answer, err := s.In.Ask(ctx, "Type the column names separated by commas:")
	if err != nil {
		return false, err
	}
	view, invalid := s.table.Select(table.ParseColumnList(answer))
	if len(view.Columns) > 0 {
		s.Out.Println(view.Render())
	}
	if len(invalid) > 0 {
		s.Out.Warn("Invalid columns: %s", strings.Join(invalid, ", "))
	}
	return false, nil
}

func (s *Session) filterClose(ctx context.Context) (bool, error) {
	answer, err := s.In.Ask(ctx, "Show rows where Close >")
	if err != nil {
		return false, err
	}
	threshold, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		s.Out.Warn("Invalid number.")
		return false, nil
	}
	s.Out.Println(s.table.FilterClose(threshold).Render())
	return false, nil
}

func (s *Session) showSummary(_ context.Context) (bool, error) {
	s.Out.Println(table.RenderSummary(s.table.Describe()))
	return false, nil
}

func (s *Session) exportCSV(ctx context.Context) (bool, error) {
	filename, err := s.In.Ask(ctx, "Enter filename (e.g., stock_data.csv):")
	if err != nil {
		return false, err
	}
	if filename == "" {
		s.Out.Warn("Filename cannot be empty.")
		return false, nil
	}
	if err := s.table.ExportCSV(filename); err != nil {
		s.Out.Error("Export failed: %v", err)
		return false, nil
	}
	s.Out.Success("Data exported to %s", filename)
	return false, nil
}

func (s *Session) exitMenu(_ context.Context) (bool, error) {
	s.Out.Println("🔚 Exiting menu.")
	return true, nil
}
