package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/torosent/microbench/internal/runner"
)

// Result is the outcome of one benchmark.
type Result struct {
	Log runner.Log
	Err error
}

// Collector records benchmark outcomes in a thread-safe manner.
type Collector struct {
	mu           sync.Mutex
	results      []Result
	errorsByType map[string]int64
	start        time.Time
}

// Stats represents aggregated session metrics.
type Stats struct {
	Benchmarks int           `json:"benchmarks" yaml:"benchmarks"`
	Succeeded  int           `json:"succeeded" yaml:"succeeded"`
	Failed     int           `json:"failed" yaml:"failed"`
	Iterations uint64        `json:"iterations" yaml:"iterations"`
	Measured   time.Duration `json:"-" yaml:"-"`
	WallTime   time.Duration `json:"-" yaml:"-"`

	// Serialization-friendly nanosecond fields.
	MeasuredNs int64          `json:"measured_ns" yaml:"measured_ns"`
	WallTimeNs int64          `json:"wall_time_ns" yaml:"wall_time_ns"`
	Errors     map[string]int `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func NewCollector() *Collector {
	return &Collector{
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start resets the wall-time origin to now.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Record stores the final log of a benchmark and the error its run returned.
func (c *Collector) Record(log runner.Log, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, Result{Log: log, Err: err})
	if err != nil {
		c.errorsByType[ErrorCategory(err)]++
	}
}

// Results returns the recorded outcomes in the order they were recorded.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

// Stats computes and returns the aggregated statistics.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Benchmarks: len(c.results),
		WallTime:   time.Since(c.start),
	}
	for _, r := range c.results {
		if r.Err == nil {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		stats.Iterations += r.Log.Iterations
		stats.Measured += r.Log.Elapsed
	}
	stats.MeasuredNs = stats.Measured.Nanoseconds()
	stats.WallTimeNs = stats.WallTime.Nanoseconds()

	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = int(v)
		}
	}
	return stats
}

// GetErrorBreakdown returns a map of error categories to their counts.
func (c *Collector) GetErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int)
	for k, v := range c.errorsByType {
		result[k] = int(v)
	}
	return result
}

// ErrorCategory names the kind of failure err represents.
func ErrorCategory(err error) string {
	var fault *runner.CallbackFault
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fault):
		return "Callback fault"
	case errors.Is(err, runner.ErrExhaustedInput):
		return "Exhausted input"
	case errors.Is(err, runner.ErrInvalidPolicy):
		return "Invalid policy"
	case errors.Is(err, runner.ErrMissingCallback):
		return "Missing callback"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Interrupted"
	}
	return FriendlyErrorName(fmt.Sprintf("%T", err))
}
