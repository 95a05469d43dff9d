// Package metrics summarizes a microbench session.
//
// The benchmark runners keep their own accounting; the [Collector] only
// gathers the final log and outcome of each benchmark so the session can be
// reported as a whole:
//
//	collector := metrics.NewCollector()
//	err := runner.RunSafely(ctx, bench)
//	collector.Record(bench.Log(), err)
//
//	stats := collector.Stats()
//
// # Statistics
//
// The [Stats] type provides:
//   - Benchmark counts (total, succeeded, failed)
//   - Iterations and measured time summed over all benchmarks
//   - Wall time of the whole session, setup and consume hooks included
//   - Failures grouped by a human-friendly error category
//
// Per-iteration means are a property of each benchmark's log and are not
// aggregated here.
package metrics
