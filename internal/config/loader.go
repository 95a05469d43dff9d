package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/torosent/microbench/internal/runner"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional configuration file
// into a Config. Flags override values from the file.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Policy:     runner.DefaultPolicy(),
		Format:     FormatText,
		LogLevel:   "warn",
		ConfigFile: configPath,
		Tracing:    TracingConfig{SampleRate: 1.0},
	}

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.Format = Format(strings.ToLower(strings.TrimSpace(string(cfg.Format))))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Inputs.Path = strings.TrimSpace(cfg.Inputs.Path)
	cfg.Inputs.Type = strings.ToLower(strings.TrimSpace(cfg.Inputs.Type))

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "policy", "benchtime"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("policy: %w", err)
		}
		policy, err := runner.ParsePolicy(val)
		if err != nil {
			return fmt.Errorf("policy: %w", err)
		}
		cfg.Policy = policy
	}

	if raw, ok := lookupSetting(settings, "bench", "benchmarks"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}
		cfg.Benchmarks = val
	}

	if raw, ok := lookupSetting(settings, "list"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		cfg.List = val
	}

	if raw, ok := lookupSetting(settings, "inputs"); ok {
		inputs, err := parseInputs(raw)
		if err != nil {
			return fmt.Errorf("inputs: %w", err)
		}
		cfg.Inputs = inputs
	}

	if raw, ok := lookupSetting(settings, "format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		if val != "" {
			cfg.Format = Format(val)
		}
	}

	if raw, ok := lookupSetting(settings, "nocolor", "no_color", "no-color"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("noColor: %w", err)
		}
		cfg.NoColor = val
	}

	if raw, ok := lookupSetting(settings, "loglevel", "log_level", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("logLevel: %w", err)
		}
		if val != "" {
			cfg.LogLevel = val
		}
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = val
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func parseInputs(value interface{}) (InputsConfig, error) {
	if value == nil {
		return InputsConfig{}, nil
	}
	// A bare string is shorthand for the path.
	if path, ok := value.(string); ok {
		return InputsConfig{Path: path}, nil
	}
	settings, err := toStringKeyMap(value)
	if err != nil {
		return InputsConfig{}, err
	}

	var inputs InputsConfig
	if raw, ok := lookupSetting(settings, "path"); ok {
		if inputs.Path, err = asString(raw); err != nil {
			return InputsConfig{}, fmt.Errorf("path: %w", err)
		}
	}
	if raw, ok := lookupSetting(settings, "type"); ok {
		if inputs.Type, err = asString(raw); err != nil {
			return InputsConfig{}, fmt.Errorf("type: %w", err)
		}
	}
	return inputs, nil
}

func applyTracingSettings(tracing *TracingConfig, value interface{}) error {
	settings, err := toStringKeyMap(value)
	if err != nil {
		return err
	}

	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		if tracing.Endpoint, err = asString(raw); err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		if tracing.Protocol, err = asString(raw); err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		if tracing.Insecure, err = asBool(raw); err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
	}
	if raw, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		if tracing.ServiceName, err = asString(raw); err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
	}
	if raw, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		if tracing.SampleRate, err = asFloat64(raw); err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
	}
	return nil
}
