package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/torosent/microbench/internal/runner"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "microbench [flags]",
		Short:         "Run the built-in micro-benchmark suite",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Measurement flags
	flags.StringP("policy", "p", runner.DefaultPolicy().String(), "Measurement policy: an iteration count (1000x) or a time budget (500ms)")
	flags.StringSliceP("bench", "b", nil, "Benchmarks to run, by name or glob (repeatable; default all)")
	flags.Bool("list", false, "List benchmark names and exit")

	// Input flags
	flags.String("inputs", "", "CSV or JSON file of base,exp records for the pow benchmarks")
	flags.String("inputs-type", "", "Type of inputs file: 'csv' or 'json' (default from extension)")

	// Output flags
	flags.StringP("format", "f", string(FormatText), "Output format: text, json or yaml")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("config", "", "Path to configuration file (JSON, YAML or TOML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Pass/fail assertion (repeatable, e.g., '*pow:mean < 2µs')")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint for benchmark spans")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.String("tracing-service-name", "", "Service name reported with spans (default microbench)")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of benchmark spans to sample (0.0-1.0)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("policy") {
		val, err := fs.GetString("policy")
		if err != nil {
			return err
		}
		policy, err := runner.ParsePolicy(val)
		if err != nil {
			return fmt.Errorf("--policy: %w", err)
		}
		cfg.Policy = policy
	}
	if fs.Changed("bench") {
		val, err := fs.GetStringSlice("bench")
		if err != nil {
			return err
		}
		cfg.Benchmarks = val
	}
	if fs.Changed("list") {
		val, err := fs.GetBool("list")
		if err != nil {
			return err
		}
		cfg.List = val
	}
	if fs.Changed("inputs") {
		val, err := fs.GetString("inputs")
		if err != nil {
			return err
		}
		cfg.Inputs.Path = val
	}
	if fs.Changed("inputs-type") {
		val, err := fs.GetString("inputs-type")
		if err != nil {
			return err
		}
		cfg.Inputs.Type = val
	}
	if fs.Changed("format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = Format(val)
	}
	if fs.Changed("no-color") {
		val, err := fs.GetBool("no-color")
		if err != nil {
			return err
		}
		cfg.NoColor = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = val
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	return applyTracingFlags(&cfg.Tracing, fs)
}

func applyTracingFlags(tracing *TracingConfig, fs *pflag.FlagSet) error {
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		tracing.Endpoint = val
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		tracing.Protocol = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		tracing.Insecure = val
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		tracing.ServiceName = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		tracing.SampleRate = val
	}
	return nil
}
