package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/torosent/microbench/internal/runner"
	"github.com/torosent/microbench/internal/threshold"
)

// Format selects how results are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Config struct {
	Policy     runner.Policy `mapstructure:"policy"`
	Benchmarks []string      `mapstructure:"bench"`
	List       bool          `mapstructure:"list"`
	Inputs     InputsConfig  `mapstructure:"inputs"`
	Format     Format        `mapstructure:"format"`
	NoColor    bool          `mapstructure:"no_color"`
	LogLevel   string        `mapstructure:"log_level"`
	Thresholds []string      `mapstructure:"thresholds"`
	Tracing    TracingConfig `mapstructure:"tracing"`
	ConfigFile string        `mapstructure:"-"`
}

// InputsConfig points the pow benchmarks at a CSV or JSON file of
// (base, exp) records instead of the built-in grid.
type InputsConfig struct {
	Path string `mapstructure:"path"`
	Type string `mapstructure:"type"`
}

// TracingConfig configures OTLP export of benchmark spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Enabled reports whether spans should be exported. An endpoint may come from
// the configuration or from OTEL_EXPORTER_OTLP_ENDPOINT.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Level returns the slog level named by LogLevel, defaulting to warn.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if err := c.Policy.Validate(); err != nil {
		issues = append(issues, err.Error())
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		issues = append(issues, fmt.Sprintf("format must be text, json or yaml, got %q", c.Format))
	}

	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			issues = append(issues, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
		}
	}

	for _, pattern := range c.Benchmarks {
		if strings.TrimSpace(pattern) == "" {
			issues = append(issues, "bench patterns cannot be empty")
			break
		}
	}

	issues = append(issues, validateInputsConfig(c.Inputs)...)
	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if _, err := threshold.ParseMultiple(c.Thresholds); err != nil {
		issues = append(issues, err.Error())
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateInputsConfig(inputs InputsConfig) []string {
	var issues []string
	typ := strings.ToLower(strings.TrimSpace(inputs.Type))
	if typ != "" && typ != "csv" && typ != "json" {
		issues = append(issues, fmt.Sprintf("inputs.type must be csv or json, got %q", inputs.Type))
	}
	if typ != "" && strings.TrimSpace(inputs.Path) == "" {
		issues = append(issues, "inputs.type requires inputs.path")
	}
	return issues
}

func validateTracingConfig(tracing TracingConfig) []string {
	var issues []string
	switch strings.ToLower(tracing.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing.protocol must be grpc or http, got %q", tracing.Protocol))
	}
	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing.sample_rate must be between 0.0 and 1.0, got %g", tracing.SampleRate))
	}
	return issues
}
