package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText prints the comparison table in a terminal-friendly layout.
func WriteText(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tORIGINAL\tPREDICTED\tDIFFERENCE\tCHANGE")
	for _, r := range rows {
		change := r.PercentChange
		if r.Direction == DirectionPositive {
			change += " ↑"
		} else if r.Direction == DirectionNegative {
			change += " ↓"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Parameter, formatValue(r.Original), formatValue(r.Predicted), r.Difference, change)
	}
	return tw.Flush()
}
