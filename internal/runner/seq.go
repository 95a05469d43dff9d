package runner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrExhaustedInput is returned when a sequence runs dry before the policy
// is satisfied.
var ErrExhaustedInput = errors.New("input sequence exhausted")

var _ Bencher = (*SeqRunner[int, int])(nil)

// SeqRunner draws one input per step from a lazy sequence. Generating the
// inputs is the sequence's business; only execute is timed. Supply an
// infinite sequence (see Cycle) unless the policy's iteration count is known
// to fit.
//
// The sequence is pulled one element at a time and never buffered. Call
// Close when the runner is no longer needed to release the pull iterator.
type SeqRunner[In, Out any] struct {
	engine
	seq     iter.Seq[In]
	next    func() (In, bool)
	stop    func()
	drained bool
	execute func(In) Out
	consume func(Out)
}

// NewSeq creates a runner fed by seq.
func NewSeq[In, Out any](seq iter.Seq[In], execute func(In) Out, opts Options[Out]) *SeqRunner[In, Out] {
	opts.normalize()
	return &SeqRunner[In, Out]{
		engine:  newEngine(opts.Label, opts.Policy),
		seq:     seq,
		execute: execute,
		consume: opts.Consume,
	}
}

func (r *SeqRunner[In, Out]) Run(ctx context.Context) error {
	return r.run(ctx, r.Step)
}

// Step takes the next element of the sequence and times one execute call on
// it. It fails with ErrExhaustedInput once the sequence has ended.
func (r *SeqRunner[In, Out]) Step() (time.Duration, error) {
	if r.execute == nil {
		return 0, ErrMissingCallback
	}
	in, ok := r.pull()
	if !ok {
		return 0, fmt.Errorf("%w: %q after %d steps", ErrExhaustedInput, r.log.Label, r.log.Iterations)
	}
	return measure(in, r.execute, r.consume), nil
}

// Close stops the underlying pull iterator. Further steps report
// ErrExhaustedInput.
func (r *SeqRunner[In, Out]) Close() {
	r.drained = true
	if r.stop != nil {
		r.stop()
		r.stop = nil
		r.next = nil
	}
}

func (r *SeqRunner[In, Out]) pull() (In, bool) {
	var zero In
	if r.drained || r.seq == nil {
		return zero, false
	}
	if r.next == nil {
		r.next, r.stop = iter.Pull(r.seq)
	}
	in, ok := r.next()
	if !ok {
		r.Close()
		return zero, false
	}
	return in, true
}

// Cycle repeats seq forever. seq must be restartable, i.e. ranging over it
// twice yields the same elements. An empty seq yields nothing.
func Cycle[T any](seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			empty := true
			for v := range seq {
				empty = false
				if !yield(v) {
					return
				}
			}
			if empty {
				return
			}
		}
	}
}
