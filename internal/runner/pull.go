package runner

import (
	"context"
	"time"
)

var _ Bencher = (*PullRunner[int, int])(nil)

// PullRunner produces a fresh input before every step by calling a
// zero-argument producer. It suits workloads with no state shared across
// iterations. Producer cost is never timed.
type PullRunner[In, Out any] struct {
	engine
	produce func() In
	execute func(In) Out
	consume func(Out)
}

// NewPull creates a runner that calls produce, then times execute.
func NewPull[In, Out any](produce func() In, execute func(In) Out, opts Options[Out]) *PullRunner[In, Out] {
	opts.normalize()
	if produce == nil {
		produce = func() In {
			var zero In
			return zero
		}
	}
	return &PullRunner[In, Out]{
		engine:  newEngine(opts.Label, opts.Policy),
		produce: produce,
		execute: execute,
		consume: opts.Consume,
	}
}

// NewNoSetup creates a runner for work that takes no input.
func NewNoSetup[Out any](execute func() Out, opts Options[Out]) *PullRunner[struct{}, Out] {
	var wrapped func(struct{}) Out
	if execute != nil {
		wrapped = func(struct{}) Out { return execute() }
	}
	return NewPull[struct{}, Out](nil, wrapped, opts)
}

func (r *PullRunner[In, Out]) Run(ctx context.Context) error {
	return r.run(ctx, r.Step)
}

// Step produces one input, then times a single execute call.
func (r *PullRunner[In, Out]) Step() (time.Duration, error) {
	if r.execute == nil {
		return 0, ErrMissingCallback
	}
	return measure(r.produce(), r.execute, r.consume), nil
}
