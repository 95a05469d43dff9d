// Package threshold evaluates pass/fail assertions against benchmark logs.
package threshold

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/torosent/microbench/internal/runner"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Pattern  string // label glob; empty matches every benchmark
	Metric   string // "mean", "elapsed" or "iterations"
	Operator string // e.g., "<", "<=", ">", ">=", "==", "!="
	Value    int64  // nanoseconds for mean/elapsed, a count for iterations
	Raw      string // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold against one benchmark.
type Result struct {
	Threshold Threshold
	Label     string
	Actual    int64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against benchmark logs.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks every threshold against every log whose label it matches.
// A threshold matching no log yields a single failed result.
func (e *Evaluator) Evaluate(logs []runner.Log) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	var results []Result
	for _, t := range e.thresholds {
		matched := false
		for _, log := range logs {
			if !t.matches(log.Label) {
				continue
			}
			matched = true
			results = append(results, e.evaluateOne(t, log))
		}
		if !matched {
			results = append(results, Result{
				Threshold: t,
				Pass:      false,
				Message:   fmt.Sprintf("✗ %s: no benchmark matches %q", t.Raw, t.Pattern),
			})
		}
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluateOne(t Threshold, log runner.Log) Result {
	actual, err := extractMetricValue(t, log)
	if err != nil {
		return Result{
			Threshold: t,
			Label:     log.Label,
			Actual:    0,
			Pass:      false,
			Message:   fmt.Sprintf("✗ %s [%s]: %v", t.Raw, log.Label, err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	message := fmt.Sprintf("%s %s [%s]: %s %s %s", status, t.Raw, log.Label,
		formatValue(t.Metric, actual), t.Operator, formatValue(t.Metric, t.Value))
	return Result{
		Threshold: t,
		Label:     log.Label,
		Actual:    actual,
		Pass:      pass,
		Message:   message,
	}
}

func (t Threshold) matches(label string) bool {
	if t.Pattern == "" {
		return true
	}
	ok, _ := path.Match(t.Pattern, label)
	return ok
}

var thresholdPattern = regexp.MustCompile(`^(?:(.+):)?\s*([a-z]+)\s*([<>=!]+)\s*(\S+)$`)

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "mean < 500ns"                  (every benchmark's mean per iteration)
// - "linear pow:mean <= 2µs"        (only benchmarks whose label matches the glob)
// - "*pow:elapsed >= 1s"            (total measured time)
// - "iterations > 1000"             (completed iterations)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: [label:]metric operator value, e.g., 'mean < 500ns')", s)
	}

	pattern := strings.TrimSpace(matches[1])
	metric := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	if pattern != "" {
		if _, err := path.Match(pattern, ""); err != nil {
			return Threshold{}, fmt.Errorf("invalid label pattern %q: %v", pattern, err)
		}
	}

	// Validate metric
	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: mean, elapsed, iterations)", metric)
	}

	// Validate operator
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==, !=)", operator)
	}

	value, err := parseValue(metric, valueStr)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	return Threshold{
		Pattern:  pattern,
		Metric:   metric,
		Operator: operator,
		Value:    value,
		Raw:      s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

func isValidMetric(metric string) bool {
	switch metric {
	case "mean", "elapsed", "iterations":
		return true
	}
	return false
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}

func parseValue(metric, raw string) (int64, error) {
	if metric == "iterations" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("iterations cannot be negative")
		}
		return n, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return int64(d), nil
}

func extractMetricValue(t Threshold, log runner.Log) (int64, error) {
	switch t.Metric {
	case "mean":
		mean, err := log.Mean()
		if err != nil {
			return 0, err
		}
		return int64(mean), nil
	case "elapsed":
		return int64(log.Elapsed), nil
	case "iterations":
		return int64(log.Iterations), nil
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func formatValue(metric string, v int64) string {
	if metric == "iterations" {
		return strconv.FormatInt(v, 10)
	}
	return time.Duration(v).String()
}

func compareValues(actual int64, operator string, expected int64) bool {
	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected
	case "==":
		return actual == expected
	case "!=":
		return actual != expected
	default:
		return false
	}
}
