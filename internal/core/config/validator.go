package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"incdeps/internal/core/errors"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks a defaulted configuration. Every failure is a
// CodeValidationError naming the offending key.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateScan,
		validateExclude,
		validateWatch,
		validateOutput,
		validateHistory,
		validateObservability,
		validateMisc,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.Newf(errors.CodeValidationError, format, args...)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return invalid("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	if len(cfg.WatchPaths) == 0 {
		return invalid("watch_paths must contain at least one directory")
	}
	if len(cfg.Scan.Extensions) == 0 {
		return invalid("scan.extensions must not be empty")
	}
	for _, ext := range cfg.Scan.Extensions {
		if strings.ContainsAny(ext, `/\*`) {
			return invalid("scan.extensions entry %q must be a plain extension", ext)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for key, patterns := range map[string][]string{"exclude.dirs": cfg.Exclude.Dirs, "exclude.files": cfg.Exclude.Files} {
		for _, pattern := range patterns {
			if _, err := glob.Compile(pattern); err != nil {
				return errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("%s pattern %q does not compile", key, pattern))
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce must not be negative")
	}
	if cfg.Watch.MinInterval < 0 {
		return invalid("watch.min_interval must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if cfg.Output.SVG != "" && !strings.HasSuffix(strings.ToLower(cfg.Output.SVG), ".svg") {
		return invalid("output.svg must end in .svg, got %q", cfg.Output.SVG)
	}
	for i, entry := range cfg.Output.UpdateMarkdown {
		if entry.File == "" {
			return invalid("output.update_markdown[%d].file must not be empty", i)
		}
		if entry.Marker == "" {
			return invalid("output.update_markdown[%d].marker must not be empty", i)
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return invalid("history.path must not be empty when history is enabled")
	}
	if cfg.History.TrendWindow < 0 {
		return invalid("history.trend_window must not be negative")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	obs := cfg.Observability
	if obs.Enabled && strings.TrimSpace(obs.Address) == "" {
		return invalid("observability.address must not be empty when enabled")
	}
	if obs.EnableTracing && strings.TrimSpace(obs.OTLPEndpoint) == "" {
		return invalid("observability.otlp_endpoint is required when tracing is enabled")
	}
	return nil
}

func validateMisc(cfg *Config) error {
	if !logLevels[cfg.Logging.Level] {
		return invalid("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	return nil
}
