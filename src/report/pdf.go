package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFInfo carries the header fields for a PDF export.
type PDFInfo struct {
	VehicleType string
	EVModel     string
	Generated   time.Time
}

// WritePDF renders the comparison table as a one-page A4 report.
func WritePDF(w io.Writer, info PDFInfo, rows []Row) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("EV Battery Prediction Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "EV Battery Prediction Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	sub := fmt.Sprintf("Vehicle: %s", info.VehicleType)
	if info.EVModel != "" {
		sub += fmt.Sprintf("  (%s)", info.EVModel)
	}
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	when := info.Generated
	if when.IsZero() {
		when = time.Now()
	}
	pdf.CellFormat(0, 6, "Generated "+when.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{62, 30, 30, 30, 28}
	headers := []string{"Parameter", "Original", "Predicted", "Difference", "Change (%)"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(46, 134, 171)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, r := range rows {
		pdf.SetFillColor(240, 244, 248)
		pdf.CellFormat(colWidths[0], 6, r.Parameter, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 6, formatValue(r.Original), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[2], 6, formatValue(r.Predicted), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[3], 6, r.Difference, "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[4], 6, r.PercentChange, "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
		fill = !fill
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// SavePDF writes the report to a file path (CLI convenience).
func SavePDF(path string, info PDFInfo, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, info, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
