// Package report turns a prediction response into everything the UIs show or
// export: rendered comparison rows, summary card lookups, CSV, a PDF report
// and locally drawn chart images.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

// NotApplicable is the display text for values that cannot be computed.
const NotApplicable = "n/a"

// Direction classifies a row's predicted-vs-original movement. It drives the
// positive/negative styling; DirectionNone rows carry no styling at all.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionFlat
	DirectionPositive
	DirectionNegative
)

func (d Direction) String() string {
	switch d {
	case DirectionPositive:
		return "positive"
	case DirectionNegative:
		return "negative"
	case DirectionFlat:
		return "flat"
	}
	return "none"
}

// Row is one fully rendered table line: raw values plus the derived display
// strings so the viewer table and the exports agree on formatting.
type Row struct {
	Parameter     string
	Original      float64
	Predicted     float64
	Difference    string // formatted, or NotApplicable
	PercentChange string // formatted with %, or NotApplicable
	Direction     Direction
}

// PercentChange computes the predicted-vs-original delta in percent. A zero
// original makes the ratio meaningless, so ok is false rather than returning
// an infinity.
func PercentChange(original, predicted float64) (float64, bool) {
	if original == 0 || math.IsNaN(original) || math.IsNaN(predicted) {
		return 0, false
	}
	return (predicted - original) / math.Abs(original) * 100, true
}

// Classify derives the direction styling for one row. Rows with unusable
// numbers get DirectionNone.
func Classify(original, predicted float64) Direction {
	if math.IsNaN(original) || math.IsNaN(predicted) {
		return DirectionNone
	}
	switch {
	case predicted > original:
		return DirectionPositive
	case predicted < original:
		return DirectionNegative
	default:
		return DirectionFlat
	}
}

// BuildRows renders every parameter row from a response. Missing or NaN
// differences become NotApplicable; nothing here errors, bad numbers only
// degrade the affected cell.
func BuildRows(rows []types.ParameterRow) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		rr := Row{
			Parameter: r.Parameter,
			Original:  r.Original,
			Predicted: r.Predicted,
		}
		if r.Difference != nil && !math.IsNaN(*r.Difference) {
			rr.Difference = formatValue(*r.Difference)
			rr.Direction = Classify(r.Original, r.Predicted)
		} else {
			rr.Difference = NotApplicable
			rr.Direction = DirectionNone
		}
		if pct, ok := PercentChange(r.Original, r.Predicted); ok {
			rr.PercentChange = fmt.Sprintf("%+.2f%%", pct)
		} else {
			rr.PercentChange = NotApplicable
		}
		out = append(out, rr)
	}
	return out
}

// SummaryCard is one headline figure above the table.
type SummaryCard struct {
	Title string
	Value string
}

// FindValue locates the predicted value of the first row whose parameter name
// contains the given substring (case-insensitive). This fuzzy match is a
// presentation nicety carried over from the original UI; absence returns the
// fallback text untouched.
func FindValue(rows []Row, substring, fallback string) string {
	needle := strings.ToLower(substring)
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Parameter), needle) {
			return formatValue(r.Predicted)
		}
	}
	return fallback
}

// SummaryCards builds the fixed card set shown above the results table.
func SummaryCards(rows []Row) []SummaryCard {
	return []SummaryCard{
		{Title: "Charging Cycles", Value: FindValue(rows, "cycle", "--")},
		{Title: "Battery Temp", Value: FindValue(rows, "temp", "--")},
		{Title: "Efficiency", Value: FindValue(rows, "efficiency", "--")},
	}
}

// formatValue trims trailing noise from backend floats for display.
func formatValue(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
