// Package uihelpers holds the viewer's pure layout/formatting logic so it can
// be unit tested without a display.
package uihelpers

import (
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/report"
)

// ComputeChartDimensions applies the width/height clamp rules for the chart
// pane. Input is the desired raw width (e.g. window width); returns clamped
// width and a height derived from a fixed aspect.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 1400 {
		w = 1400
	}
	h := int(float32(w) * 0.5)
	if h < 320 {
		h = 320
	}
	if h > 640 {
		h = 640
	}
	return w, h
}

// ComputeTableColumnWidths returns the 5 column widths for the results table
// given a window width. Order: Parameter, Original, Predicted, Difference,
// Change. Zero hides a column on narrow windows.
func ComputeTableColumnWidths(winW float32) [5]int {
	const compactBreakpoint = 760
	const ultraCompactBreakpoint = 480
	if winW < ultraCompactBreakpoint {
		return [5]int{150, 70, 70, 0, 70}
	}
	if winW < compactBreakpoint {
		return [5]int{180, 85, 85, 85, 85}
	}
	return [5]int{260, 110, 110, 110, 110}
}

// DirectionGlyph maps a row direction to the arrow shown beside the change
// cell. None/flat rows carry no glyph, matching their lack of styling.
func DirectionGlyph(d report.Direction) string {
	switch d {
	case report.DirectionPositive:
		return "▲"
	case report.DirectionNegative:
		return "▼"
	}
	return ""
}
