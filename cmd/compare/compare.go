package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/LynnColeArt/dgemm/harness"
)

// Comparison statuses.
const (
	statusPass    = "PASS"
	statusFail    = "FAIL"
	statusSlower  = "SLOWER"
	statusFaster  = "FASTER"
	statusMissing = "MISSING"
)

// fasterThreshold marks a speedup worth calling out.
const fasterThreshold = 1.2

type key struct {
	step string
	size int
}

func (k key) String() string { return fmt.Sprintf("%s/%d", k.step, k.size) }

type comparison struct {
	key      key
	status   string
	baseline harness.Result
	current  harness.Result
	speedup  float64
	drift    float64 // current minus baseline deviation
	message  string
}

// failed reports whether the comparison should fail the command.
func (c comparison) failed() bool {
	switch c.status {
	case statusFail, statusSlower, statusMissing:
		return true
	}
	return false
}

// compare matches results by step and size. When a file holds several runs
// the last row for each pair wins. A pair is SLOWER when the current time
// exceeds the baseline by more than regress, and FAIL when its deviation
// from the reference grew by more than tol.
func compare(baseline, current []harness.Result, regress, tol float64) []comparison {
	byKey := func(rs []harness.Result) map[key]harness.Result {
		return lo.SliceToMap(rs, func(r harness.Result) (key, harness.Result) {
			return key{r.Step, r.Size}, r
		})
	}
	cur := byKey(current)

	// Keep the baseline order, once per pair.
	keys := lo.Uniq(lo.Map(baseline, func(r harness.Result, _ int) key { return key{r.Step, r.Size} }))
	base := byKey(baseline)

	comps := make([]comparison, 0, len(keys))
	for _, k := range keys {
		b := base[k]
		comp := comparison{key: k, baseline: b}

		c, ok := cur[k]
		if !ok {
			comp.status = statusMissing
			comp.message = "missing in current results"
			comps = append(comps, comp)
			continue
		}
		comp.current = c
		comp.drift = c.Deviation - b.Deviation

		// Reports round times to 10ms; a zero time carries no speed signal.
		if b.Elapsed > 0 && c.Elapsed > 0 {
			comp.speedup = b.Seconds() / c.Seconds()
		}

		switch {
		case comp.drift > tol:
			comp.status = statusFail
			comp.message = fmt.Sprintf("deviation grew by %.3g", comp.drift)
		case comp.speedup > 0 && comp.speedup < 1/regress:
			comp.status = statusSlower
			comp.message = fmt.Sprintf("%.2fx slower", 1/comp.speedup)
		case comp.speedup > fasterThreshold:
			comp.status = statusFaster
			comp.message = fmt.Sprintf("%.2fx faster", comp.speedup)
		default:
			comp.status = statusPass
		}
		comps = append(comps, comp)
	}
	return comps
}

func printComparisons(w io.Writer, comps []comparison) {
	p := message.NewPrinter(language.English)

	counts := lo.CountValuesBy(comps, func(c comparison) string { return c.status })
	p.Fprintf(w, "=== DGEMM Baseline Comparison ===\n\n")
	p.Fprintf(w, "Total pairs: %d\n", len(comps))
	for _, s := range []string{statusPass, statusFail, statusSlower, statusFaster, statusMissing} {
		p.Fprintf(w, "  %-8s %d\n", s+":", counts[s])
	}
	fmt.Fprintln(w)

	if notable := lo.Filter(comps, func(c comparison, _ int) bool { return c.message != "" }); len(notable) > 0 {
		fmt.Fprintln(w, "CHANGES:")
		for _, c := range notable {
			p.Fprintf(w, "  %s: %s (%.2fs -> %.2fs)\n", c.key, c.message, c.baseline.Seconds(), c.current.Seconds())
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "DETAILED RESULTS:")
	fmt.Fprintf(w, "%-16s %-8s %10s %10s %8s %12s\n", "Pair", "Status", "Base (s)", "Curr (s)", "Speedup", "Error drift")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, c := range comps {
		fmt.Fprintf(w, "%-16s %-8s %10.2f %10.2f %8.2f %12.2e\n",
			c.key, c.status, c.baseline.Seconds(), c.current.Seconds(), c.speedup, c.drift)
	}
}
