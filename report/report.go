package report

import (
	"fmt"
	"io"

	"github.com/movietally/movietally/scan"
)

// Render writes one line per year total, in the order given.
func Render(w io.Writer, totals []scan.YearTotal) {
	for _, t := range totals {
		suffix := "s"
		if t.Total == 1 {
			suffix = ""
		}
		fmt.Fprintf(w, "Year %d: %d movie%s\n", t.Year, t.Total, suffix)
	}
}
