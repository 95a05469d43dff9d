package runner

import (
	"errors"
	"fmt"
	"time"
)

// ErrUndefinedMean is returned by Mean when no iteration has completed.
var ErrUndefinedMean = errors.New("mean is undefined: no completed iterations")

// Log is the accounting record of one runner: how many timed steps completed
// and how much time they took in total.
type Log struct {
	Label      string
	Policy     Policy
	Iterations uint64
	Elapsed    time.Duration
}

// Mean returns Elapsed / Iterations, truncated to whole nanoseconds.
func (l Log) Mean() (time.Duration, error) {
	if l.Iterations == 0 {
		return 0, ErrUndefinedMean
	}
	return l.Elapsed / time.Duration(l.Iterations), nil
}

// String renders "<label>: <elapsed> / <iterations> = ± <mean>/iter".
func (l Log) String() string {
	mean := "undefined"
	if m, err := l.Mean(); err == nil {
		mean = m.String()
	}
	return fmt.Sprintf("%s: %s / %d = ± %s/iter", l.Label, l.Elapsed, l.Iterations, mean)
}

func (l *Log) record(elapsed time.Duration) {
	l.Iterations++
	l.Elapsed += elapsed
}
