package uihelpers

import (
	"testing"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/report"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		rawW       int
		wantW      int
		minH, maxH int
	}{
		{200, 640, 320, 640},
		{1000, 1000, 320, 640},
		{4000, 1400, 320, 640},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.rawW)
		if w != c.wantW {
			t.Fatalf("ComputeChartDimensions(%d) width = %d, want %d", c.rawW, w, c.wantW)
		}
		if h < c.minH || h > c.maxH {
			t.Fatalf("ComputeChartDimensions(%d) height = %d out of [%d,%d]", c.rawW, h, c.minH, c.maxH)
		}
	}
}

func TestComputeTableColumnWidths(t *testing.T) {
	wide := ComputeTableColumnWidths(1200)
	for i, w := range wide {
		if w <= 0 {
			t.Fatalf("wide layout hides column %d", i)
		}
	}
	narrow := ComputeTableColumnWidths(400)
	if narrow[3] != 0 {
		t.Fatalf("ultra-compact layout should hide the difference column, got %d", narrow[3])
	}
	if narrow[0] == 0 || narrow[4] == 0 {
		t.Fatal("parameter and change columns must stay visible")
	}
}

func TestDirectionGlyph(t *testing.T) {
	if DirectionGlyph(report.DirectionPositive) != "▲" {
		t.Fatal("positive glyph wrong")
	}
	if DirectionGlyph(report.DirectionNegative) != "▼" {
		t.Fatal("negative glyph wrong")
	}
	if DirectionGlyph(report.DirectionFlat) != "" || DirectionGlyph(report.DirectionNone) != "" {
		t.Fatal("flat/none rows must carry no glyph")
	}
}
