// Package runner provides the measurement engine for microbench.
//
// A runner repeatedly executes a unit of work, timing only the work itself,
// and keeps a running total of elapsed time and completed iterations:
//   - Fixed-count and time-budget termination ([FixedIterations], [TimeBudget])
//   - Fresh input per step from a producer callback ([PullRunner])
//   - Input drawn from a lazy sequence ([SeqRunner])
//   - An untimed consume hook for validating each result
//
// # Basic Usage
//
// Create a runner with options and the callbacks to measure:
//
//	r := runner.NewPull(
//		func() uint64 { return 42 },
//		func(n uint64) uint64 { return n * n },
//		runner.Options[uint64]{
//			Label:  "square",
//			Policy: runner.FixedIterations(1000),
//		},
//	)
//	if err := r.Run(ctx); err != nil {
//		return err
//	}
//	fmt.Println(r) // square: 21.4µs / 1000 = ± 21ns/iter
//
// # Steps
//
// Every runner shape implements [Bencher.Step] the same way: produce an input
// outside the timer, start the timer, execute, stop the timer, then hand the
// output to the consume hook. Inputs and outputs pass through an opaque
// function boundary so the compiler cannot prove the measured call is dead.
//
// # Policies
//
// [FixedIterations] runs exactly n steps. [TimeBudget] checks the accumulated
// elapsed time before every step and stops once it reaches the budget, so a
// run overshoots by at most one step and a zero budget runs nothing. The
// default policy is a one second budget.
//
// # Errors
//
// [ErrExhaustedInput] is returned when a [SeqRunner] runs out of input before
// its policy is satisfied. [ErrUndefinedMean] is returned by Mean when no
// iteration completed. Panics raised by callbacks propagate unchanged out of
// Run; use [RunSafely] to turn them into a [*CallbackFault]. In every case the
// steps completed before the failure stay recorded.
//
// # Middleware
//
// Decorate runners with [WithLogging] to log run progress and failures.
package runner
