package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/torosent/microbench/internal/metrics"
	"github.com/torosent/microbench/internal/runner"
	"github.com/torosent/microbench/internal/threshold"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sampleResults() []metrics.Result {
	return []metrics.Result{
		{Log: runner.Log{Label: "linear pow", Policy: runner.FixedIterations(4), Iterations: 4, Elapsed: 10 * time.Microsecond}},
		{
			Log: runner.Log{Label: "broken", Policy: runner.TimeBudget(time.Second)},
			Err: &runner.CallbackFault{Label: "broken", Value: errors.New("wrong answer")},
		},
	}
}

func sampleStats() metrics.Stats {
	return metrics.Stats{
		Benchmarks: 2,
		Succeeded:  1,
		Failed:     1,
		Iterations: 4,
		Measured:   10 * time.Microsecond,
		MeasuredNs: 10_000,
		Errors:     map[string]int{"Callback fault": 1},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	results := sampleResults()
	PrintReport(&buf, results, sampleStats())

	output := buf.String()
	if !strings.Contains(output, results[0].Log.String()+"\n") {
		t.Errorf("expected report line %q in output:\n%s", results[0].Log.String(), output)
	}
	if !strings.Contains(output, "FAIL broken: 0s / 0 = ± undefined/iter") {
		t.Errorf("expected failed benchmark line in output:\n%s", output)
	}
	if !strings.Contains(output, "wrong answer") {
		t.Errorf("expected failure reason in output:\n%s", output)
	}
	for _, want := range []string{"Benchmarks:        2", "Failed:            1", "Callback fault: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in summary:\n%s", want, output)
		}
	}
}

func TestReportLineMatchesLogString(t *testing.T) {
	logs := []runner.Log{
		{Label: "foo", Iterations: 3, Elapsed: 3 * time.Second},
		{Label: "empty"},
	}
	for _, log := range logs {
		if got := reportLine(log); got != log.String() {
			t.Errorf("reportLine() = %q, want %q", got, log.String())
		}
	}
}

func TestPrintThresholds(t *testing.T) {
	var buf bytes.Buffer
	PrintThresholds(&buf, []threshold.Result{
		{Pass: true, Message: "✓ ok"},
		{Pass: false, Message: "✗ slow"},
	})
	output := buf.String()
	if !strings.Contains(output, "✓ ok") || !strings.Contains(output, "✗ slow") {
		t.Errorf("expected both messages in output:\n%s", output)
	}
	if !strings.Contains(output, "1/2 passed") {
		t.Errorf("expected pass count in output:\n%s", output)
	}

	buf.Reset()
	PrintThresholds(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("PrintThresholds(nil) wrote %q", buf.String())
	}
}

func TestNewReport(t *testing.T) {
	th, err := threshold.Parse("mean < 1ms")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	results := sampleResults()
	thresholdResults := threshold.NewEvaluator([]threshold.Threshold{th}).Evaluate([]runner.Log{results[0].Log})

	report := NewReport("run-1", results, sampleStats(), thresholdResults)

	if len(report.Benchmarks) != 2 {
		t.Fatalf("Benchmarks = %d, want 2", len(report.Benchmarks))
	}
	first := report.Benchmarks[0]
	if first.RunID != "run-1" || first.Policy != "4x" || first.ElapsedNs != 10_000 {
		t.Errorf("first entry = %+v", first)
	}
	if first.MeanNs == nil || *first.MeanNs != 2500 {
		t.Errorf("first MeanNs = %v, want 2500", first.MeanNs)
	}
	second := report.Benchmarks[1]
	if second.MeanNs != nil {
		t.Errorf("second MeanNs = %d, want nil", *second.MeanNs)
	}
	if !strings.Contains(second.Error, "wrong answer") {
		t.Errorf("second Error = %q", second.Error)
	}
	if len(report.Thresholds) != 1 || !report.Thresholds[0].Pass || report.Thresholds[0].Label != "linear pow" {
		t.Errorf("Thresholds = %+v", report.Thresholds)
	}
}

func TestPrintJSONReport(t *testing.T) {
	report := NewReport("run-1", sampleResults(), sampleStats(), nil)

	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, report); err != nil {
		t.Fatalf("PrintJSONReport() error = %v", err)
	}

	var decoded struct {
		RunID      string `json:"run_id"`
		Benchmarks []map[string]any
		Summary    map[string]any
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RunID != "run-1" {
		t.Errorf("run_id = %q", decoded.RunID)
	}
	if v, ok := decoded.Benchmarks[1]["mean_ns"]; !ok || v != nil {
		t.Errorf("mean_ns = %v (present %v), want null", v, ok)
	}
	if decoded.Summary["measured_ns"] != float64(10_000) {
		t.Errorf("summary measured_ns = %v", decoded.Summary["measured_ns"])
	}
	if strings.Contains(buf.String(), `"thresholds"`) {
		t.Error("expected thresholds to be omitted when empty")
	}
}

func TestPrintYAMLReport(t *testing.T) {
	report := NewReport("run-1", sampleResults(), sampleStats(), nil)

	var buf bytes.Buffer
	if err := PrintYAMLReport(&buf, report); err != nil {
		t.Fatalf("PrintYAMLReport() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"run_id: run-1", "label: linear pow", "mean_ns: 2500", "mean_ns: null", "policy: 4x"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in YAML:\n%s", want, output)
		}
	}

	var decoded Report
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(decoded.Benchmarks) != 2 || decoded.Summary.Benchmarks != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != 26 || a == b {
		t.Errorf("NewRunID() = %q, %q", a, b)
	}
}
