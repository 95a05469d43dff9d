package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/torosent/microbench/internal/metrics"
	"github.com/torosent/microbench/internal/runner"
	"github.com/torosent/microbench/internal/threshold"
)

// PrintReport writes one report line per benchmark followed by a summary.
// Failed benchmarks are marked in red with their error; their partial log
// is still printed.
func PrintReport(w io.Writer, results []metrics.Result, stats metrics.Stats) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s\n", color.RedString("FAIL"), reportLine(r.Log))
			fmt.Fprintf(w, "     %s\n", color.RedString("%v", r.Err))
			continue
		}
		fmt.Fprintln(w, reportLine(r.Log))
	}

	fmt.Fprintln(w, "\n--- Benchmark Summary ---")
	fmt.Fprintf(w, "Benchmarks:        %d\n", stats.Benchmarks)
	fmt.Fprintf(w, "Succeeded:         %d\n", stats.Succeeded)
	if stats.Failed > 0 {
		fmt.Fprintf(w, "Failed:            %s\n", color.RedString("%d", stats.Failed))
	} else {
		fmt.Fprintf(w, "Failed:            %d\n", stats.Failed)
	}
	fmt.Fprintf(w, "Iterations:        %d\n", stats.Iterations)
	fmt.Fprintf(w, "Measured:          %s\n", stats.Measured)
	fmt.Fprintf(w, "Wall time:         %s\n", stats.WallTime)

	if len(stats.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		names := make([]string, 0, len(stats.Errors))
		for name := range stats.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", name, stats.Errors[name])
		}
	}
}

// reportLine renders log the way runner.Log.String does, with the label and
// mean highlighted.
func reportLine(log runner.Log) string {
	mean := "undefined"
	if m, err := log.Mean(); err == nil {
		mean = m.String()
	}
	return fmt.Sprintf("%s: %s / %d = ± %s/iter",
		color.CyanString("%s", log.Label),
		log.Elapsed,
		log.Iterations,
		color.GreenString("%s", mean),
	)
}

// PrintThresholds writes each threshold outcome and a pass count.
func PrintThresholds(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "\n--- Thresholds ---")
	passed := 0
	for _, r := range results {
		if r.Pass {
			passed++
			fmt.Fprintln(w, color.GreenString("%s", r.Message))
		} else {
			fmt.Fprintln(w, color.RedString("%s", r.Message))
		}
	}
	fmt.Fprintf(w, "%d/%d passed\n", passed, len(results))
}
