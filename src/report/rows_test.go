package report

import (
	"math"
	"testing"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

func f(v float64) *float64 { return &v }

func TestPercentChange(t *testing.T) {
	if v, ok := PercentChange(100, 110); !ok || math.Abs(v-10) > 1e-9 {
		t.Fatalf("PercentChange(100,110) = %v,%v", v, ok)
	}
	if v, ok := PercentChange(100, 90); !ok || math.Abs(v+10) > 1e-9 {
		t.Fatalf("PercentChange(100,90) = %v,%v", v, ok)
	}
	// Negative originals scale against their magnitude.
	if v, ok := PercentChange(-50, -45); !ok || math.Abs(v-10) > 1e-9 {
		t.Fatalf("PercentChange(-50,-45) = %v,%v", v, ok)
	}
	if _, ok := PercentChange(0, 42); ok {
		t.Fatal("zero original must be not applicable, never a division result")
	}
	if _, ok := PercentChange(math.NaN(), 1); ok {
		t.Fatal("NaN original must be not applicable")
	}
}

func TestClassifyDirection(t *testing.T) {
	if Classify(1, 2) != DirectionPositive {
		t.Fatal("predicted > original must be positive")
	}
	if Classify(2, 1) != DirectionNegative {
		t.Fatal("predicted < original must be negative")
	}
	if Classify(2, 2) != DirectionFlat {
		t.Fatal("equality must be flat")
	}
	if Classify(math.NaN(), 2) != DirectionNone {
		t.Fatal("NaN must carry no styling")
	}
}

func TestBuildRows(t *testing.T) {
	in := []types.ParameterRow{
		{Parameter: "Charging Cycles", Original: 100, Predicted: 110, Difference: f(10)},
		{Parameter: "Degradation Rate", Original: 2, Predicted: 1.5, Difference: f(-0.5)},
		{Parameter: "SOC", Original: 80, Predicted: 80, Difference: f(0)},
		{Parameter: "Voltage", Original: 0, Predicted: 3.7, Difference: f(3.7)},
		{Parameter: "Missing Diff", Original: 5, Predicted: 6},
		{Parameter: "NaN Diff", Original: 5, Predicted: 6, Difference: f(math.NaN())},
	}
	rows := BuildRows(in)
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if rows[0].Direction != DirectionPositive || rows[0].PercentChange != "+10.00%" {
		t.Fatalf("cycles row wrong: %+v", rows[0])
	}
	if rows[1].Direction != DirectionNegative || rows[1].PercentChange != "-25.00%" {
		t.Fatalf("degradation row wrong: %+v", rows[1])
	}
	if rows[2].Direction != DirectionFlat || rows[2].PercentChange != "+0.00%" {
		t.Fatalf("flat row wrong: %+v", rows[2])
	}
	if rows[3].PercentChange != NotApplicable {
		t.Fatalf("zero-original percent = %q, want %q", rows[3].PercentChange, NotApplicable)
	}
	if rows[4].Difference != NotApplicable || rows[4].Direction != DirectionNone {
		t.Fatalf("missing-diff row wrong: %+v", rows[4])
	}
	if rows[5].Difference != NotApplicable || rows[5].Direction != DirectionNone {
		t.Fatalf("NaN-diff row wrong: %+v", rows[5])
	}
}

func TestFindValueFuzzyMatch(t *testing.T) {
	rows := BuildRows([]types.ParameterRow{
		{Parameter: "Battery Temp (C)", Original: 30, Predicted: 31.5},
		{Parameter: "Charging Cycles", Original: 400, Predicted: 412},
	})
	if got := FindValue(rows, "cycle", "--"); got != "412" {
		t.Fatalf("cycle lookup = %q, want 412", got)
	}
	if got := FindValue(rows, "TEMP", "--"); got != "31.5" {
		t.Fatalf("temp lookup = %q, want 31.5", got)
	}
	if got := FindValue(rows, "efficiency", "--"); got != "--" {
		t.Fatalf("missing lookup = %q, want fallback", got)
	}
}

func TestSummaryCards(t *testing.T) {
	cards := SummaryCards(nil)
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	for _, c := range cards {
		if c.Value != "--" {
			t.Fatalf("empty rows must yield fallback, got %q for %s", c.Value, c.Title)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{1.0, "1"},
		{0.1234, "0.1234"},
		{0.12346, "0.1235"}, // rounded at 4 decimals
		{0, "0"},
		{-2.5, "-2.5"},
	}
	for _, c := range cases {
		if got := formatValue(c.in); got != c.want {
			t.Fatalf("formatValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
