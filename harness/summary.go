package harness

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaselineStep is the kernel speedups are measured against.
const BaselineStep = "step01"

// PrintSummary writes a table of results with GFLOPS and the speedup over
// BaselineStep at the same order. Rows whose order has no baseline show a
// dash in the speedup column.
func PrintSummary(w io.Writer, results []Result) error {
	p := message.NewPrinter(language.English)

	baseline := make(map[int]Result)
	for _, r := range results {
		if r.Step == BaselineStep {
			baseline[r.Size] = r
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "Step\tSize\tTile\tTime (s)\tGFLOPS\tSpeedup\tError\t\n")
	for _, r := range results {
		speedup := "-"
		if base, ok := baseline[r.Size]; ok && r.Elapsed > 0 {
			speedup = p.Sprintf("%.2fx", base.Seconds()/r.Seconds())
		}
		// Deviations are tiny; keep them in plain exponent form.
		p.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.2f\t%s\t%s\t\n",
			r.Step, r.Size, r.Tile, r.Seconds(), r.GFLOPS, speedup, fmt.Sprintf("%.3g", r.Deviation))
	}
	return tw.Flush()
}
