package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/torosent/microbench/internal/config"
	"github.com/torosent/microbench/internal/feeder"
	"github.com/torosent/microbench/internal/metrics"
	"github.com/torosent/microbench/internal/output"
	"github.com/torosent/microbench/internal/runner"
	"github.com/torosent/microbench/internal/samples"
	"github.com/torosent/microbench/internal/threshold"
	"github.com/torosent/microbench/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

var errThresholdsFailed = errors.New("one or more thresholds failed")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	inputs, err := loadInputs(cfg.Inputs)
	if err != nil {
		return err
	}
	logger.Debug("inputs loaded", "count", len(inputs), "path", cfg.Inputs.Path)

	suite := samples.Suite(cfg.Policy, inputs)
	defer func() {
		for _, b := range suite {
			b.Close()
		}
	}()

	if cfg.List {
		for _, b := range suite {
			fmt.Fprintln(stdout, b.Name)
		}
		return nil
	}

	selected, err := samples.Select(suite, cfg.Benchmarks)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()
	tracer := provider.Tracer()
	if !provider.Enabled() {
		tracer = nil
	}

	collector := metrics.NewCollector()
	progress := newProgress(stderr)

	collector.Start()
	for _, b := range selected {
		if ctx.Err() != nil {
			logger.Warn("interrupted, skipping remaining benchmarks")
			break
		}
		bencher := runner.WithLogging(tracing.Wrap(b, tracer), logger)

		progress.Start(b.Name)
		err := runner.RunSafely(ctx, bencher)
		progress.Done()

		var fault *runner.CallbackFault
		if errors.As(err, &fault) {
			logger.Error("benchmark callback panicked",
				"label", fault.Label,
				"panic", fmt.Sprint(fault.Value),
				"stack", string(fault.Stack))
		}
		collector.Record(b.Log(), err)
	}

	results := collector.Results()
	stats := collector.Stats()

	logs := make([]runner.Log, len(results))
	for i, r := range results {
		logs[i] = r.Log
	}
	thresholdResults := threshold.NewEvaluator(thresholds).Evaluate(logs)

	switch cfg.Format {
	case config.FormatJSON:
		report := output.NewReport(output.NewRunID(), results, stats, thresholdResults)
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	case config.FormatYAML:
		report := output.NewReport(output.NewRunID(), results, stats, thresholdResults)
		if err := output.PrintYAMLReport(stdout, report); err != nil {
			return err
		}
	default:
		output.PrintReport(stdout, results, stats)
		output.PrintThresholds(stdout, thresholdResults)
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d benchmarks failed", stats.Failed, stats.Benchmarks)
	}
	if !threshold.Passed(thresholdResults) {
		return errThresholdsFailed
	}
	return nil
}

func loadInputs(cfg config.InputsConfig) ([]samples.PowInput, error) {
	if cfg.Path == "" {
		return samples.Grid(), nil
	}
	src, err := feeder.Load(cfg.Path, feeder.Type(cfg.Type))
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	inputs, err := samples.InputsFromSource(src)
	if err != nil {
		return nil, fmt.Errorf("inputs %s: %w", cfg.Path, err)
	}
	return inputs, nil
}

// newProgress shows the progress line only when w is an interactive terminal.
func newProgress(w io.Writer) *output.Progress {
	f, _ := w.(*os.File)
	return output.NewProgress(f)
}
