package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteCSV writes the Date index followed by every column. Undefined cells are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	headers := append([]string{"Date"}, t.ColumnNames()...)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i := range t.Dates {
		row := make([]string, 0, len(headers))
		row = append(row, t.Dates[i].Format("2006-01-02"))
		for _, c := range t.Columns {
			if v, ok := c.at(i); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes the table to path, creating or truncating the file.
func (t *Table) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
