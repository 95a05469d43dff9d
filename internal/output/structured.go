package output

import (
	"encoding/json"
	"io"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/torosent/microbench/internal/metrics"
	"github.com/torosent/microbench/internal/threshold"
)

// Report is the machine-readable form of a suite run.
type Report struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	Benchmarks []Entry          `json:"benchmarks" yaml:"benchmarks"`
	Summary    metrics.Stats    `json:"summary" yaml:"summary"`
	Thresholds []ThresholdEntry `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// Entry describes one benchmark. MeanNs is nil when no iteration completed.
type Entry struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Label      string `json:"label" yaml:"label"`
	Policy     string `json:"policy" yaml:"policy"`
	Iterations uint64 `json:"iterations" yaml:"iterations"`
	ElapsedNs  int64  `json:"elapsed_ns" yaml:"elapsed_ns"`
	MeanNs     *int64 `json:"mean_ns" yaml:"mean_ns"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ThresholdEntry is a serialized threshold outcome.
type ThresholdEntry struct {
	Threshold string `json:"threshold" yaml:"threshold"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Metric    string `json:"metric" yaml:"metric"`
	Operator  string `json:"operator" yaml:"operator"`
	Expected  int64  `json:"expected" yaml:"expected"`
	Actual    int64  `json:"actual" yaml:"actual"`
	Pass      bool   `json:"pass" yaml:"pass"`
}

// NewRunID returns a fresh, time-sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// NewReport assembles a Report from collected results.
func NewReport(runID string, results []metrics.Result, stats metrics.Stats, thresholds []threshold.Result) Report {
	report := Report{
		RunID:      runID,
		Benchmarks: make([]Entry, 0, len(results)),
		Summary:    stats,
	}
	for _, r := range results {
		entry := Entry{
			RunID:      runID,
			Label:      r.Log.Label,
			Policy:     r.Log.Policy.String(),
			Iterations: r.Log.Iterations,
			ElapsedNs:  r.Log.Elapsed.Nanoseconds(),
		}
		if mean, err := r.Log.Mean(); err == nil {
			ns := mean.Nanoseconds()
			entry.MeanNs = &ns
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		report.Benchmarks = append(report.Benchmarks, entry)
	}
	for _, tr := range thresholds {
		report.Thresholds = append(report.Thresholds, ThresholdEntry{
			Threshold: tr.Threshold.Raw,
			Label:     tr.Label,
			Metric:    tr.Threshold.Metric,
			Operator:  tr.Threshold.Operator,
			Expected:  tr.Threshold.Value,
			Actual:    tr.Actual,
			Pass:      tr.Pass,
		})
	}
	return report
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
