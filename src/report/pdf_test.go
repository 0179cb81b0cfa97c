package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

func TestWritePDF(t *testing.T) {
	rows := BuildRows([]types.ParameterRow{
		{Parameter: "SOC", Original: 80, Predicted: 82, Difference: f(2)},
		{Parameter: "Battery Temp", Original: 30, Predicted: 29, Difference: f(-1)},
	})
	info := PDFInfo{VehicleType: "Car", EVModel: "Model A", Generated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	var buf bytes.Buffer
	if err := WritePDF(&buf, info, rows); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF") {
		t.Fatalf("output does not start with %%PDF: %q", out[:16])
	}
	if buf.Len() < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", buf.Len())
	}
}

func TestSavePDF(t *testing.T) {
	rows := BuildRows([]types.ParameterRow{{Parameter: "SOC", Original: 80, Predicted: 82, Difference: f(2)}})
	path := t.TempDir() + "/report.pdf"
	if err := SavePDF(path, PDFInfo{VehicleType: "Bus"}, rows); err != nil {
		t.Fatalf("save pdf: %v", err)
	}
}
