package runner

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// ErrMissingCallback is returned by Step when a runner has no execute callback.
var ErrMissingCallback = errors.New("runner has no execute callback")

// Bencher is the contract shared by every runner shape. Only Step differs
// between shapes; termination and accounting live in the shared engine.
type Bencher interface {
	// Run executes timed steps until the policy is satisfied, ctx is done or a
	// step fails. Completed steps stay recorded when Run returns an error.
	Run(ctx context.Context) error

	// Step takes one timed sample and returns its duration without recording it.
	Step() (time.Duration, error)

	Log() Log
	Mean() (time.Duration, error)

	// Reset zeroes the accumulated iterations and elapsed time.
	Reset()

	String() string
}

// engine owns the accounting log and the termination loop.
type engine struct {
	log Log
}

func newEngine(label string, policy Policy) engine {
	return engine{log: Log{Label: label, Policy: policy}}
}

func (e *engine) Log() Log                     { return e.log }
func (e *engine) Mean() (time.Duration, error) { return e.log.Mean() }
func (e *engine) String() string               { return e.log.String() }

func (e *engine) Reset() {
	e.log.Iterations = 0
	e.log.Elapsed = 0
}

// run drives step according to the policy. The iteration count is advanced
// per step so it always agrees with the elapsed total, even when a step fails
// part way through a fixed-count run.
func (e *engine) run(ctx context.Context, step func() (time.Duration, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	policy := e.log.Policy
	if err := policy.Validate(); err != nil {
		return err
	}

	switch policy.Kind() {
	case PolicyFixedIterations:
		for range policy.Iterations() {
			if err := e.once(ctx, step); err != nil {
				return err
			}
		}
	case PolicyTimeBudget:
		// Checked before every step: a zero budget runs nothing.
		for e.log.Elapsed < policy.Budget() {
			if err := e.once(ctx, step); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *engine) once(ctx context.Context, step func() (time.Duration, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	elapsed, err := step()
	if err != nil {
		return err
	}
	e.log.record(elapsed)
	return nil
}

// measure times execute(in) and hands the output to consume after the clock
// has stopped.
func measure[In, Out any](in In, execute func(In) Out, consume func(Out)) time.Duration {
	in = opaque(in)
	start := time.Now()
	out := execute(in)
	elapsed := time.Since(start)
	consume(opaque(out))
	runtime.KeepAlive(out)
	return elapsed
}

// opaque is an inlining barrier: the compiler cannot see through it, so it
// cannot prove a value flowing in or out of the measured call is unused and
// drop the call.
//
//go:noinline
func opaque[T any](v T) T {
	return v
}
