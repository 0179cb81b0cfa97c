package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// csvHeader is the fixed export header; one data row follows per table row.
var csvHeader = []string{"Parameter", "Original", "Predicted", "Difference", "Change (%)"}

// WriteCSV serializes the rendered table. encoding/csv handles quoting and
// doubles embedded quote characters per RFC 4180.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Parameter,
			formatValue(r.Original),
			formatValue(r.Predicted),
			r.Difference,
			r.PercentChange,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Parameter, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file path (CLI convenience).
func SaveCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
