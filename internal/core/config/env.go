package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "INCDEPS_"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	slog.Debug("loaded environment file", "path", path)
	return nil
}

// ApplyEnvOverrides applies INCDEPS_[SECTION]_[KEY] environment overrides,
// e.g. INCDEPS_HISTORY_ENABLED=true. List values are comma separated.
func ApplyEnvOverrides(cfg *Config) {
	setEnvList(&cfg.WatchPaths, envPrefix+"WATCH_PATHS")

	// Scan
	setEnvList(&cfg.Scan.Extensions, envPrefix+"SCAN_EXTENSIONS")
	setEnvList(&cfg.Scan.TestMarkers, envPrefix+"SCAN_TEST_MARKERS")
	setEnvBool(&cfg.Scan.IncludeTests, envPrefix+"SCAN_INCLUDE_TESTS")

	// Exclude
	setEnvList(&cfg.Exclude.Dirs, envPrefix+"EXCLUDE_DIRS")
	setEnvList(&cfg.Exclude.Files, envPrefix+"EXCLUDE_FILES")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, envPrefix+"WATCH_DEBOUNCE")
	setEnvDuration(&cfg.Watch.MinInterval, envPrefix+"WATCH_MIN_INTERVAL")

	// Output
	setEnvString(&cfg.Output.Root, envPrefix+"OUTPUT_ROOT")
	setEnvString(&cfg.Output.Mermaid, envPrefix+"OUTPUT_MERMAID")
	setEnvString(&cfg.Output.DOT, envPrefix+"OUTPUT_DOT")
	setEnvString(&cfg.Output.SVG, envPrefix+"OUTPUT_SVG")
	setEnvString(&cfg.Output.PlantUML, envPrefix+"OUTPUT_PLANTUML")
	setEnvString(&cfg.Output.TSV, envPrefix+"OUTPUT_TSV")
	setEnvString(&cfg.Output.YAML, envPrefix+"OUTPUT_YAML")
	setEnvString(&cfg.Output.Report, envPrefix+"OUTPUT_REPORT")
	setEnvString(&cfg.Output.Keyword, envPrefix+"OUTPUT_KEYWORD")

	// History
	setEnvBool(&cfg.History.Enabled, envPrefix+"HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, envPrefix+"HISTORY_PATH")
	setEnvString(&cfg.History.Project, envPrefix+"HISTORY_PROJECT")
	setEnvDuration(&cfg.History.TrendWindow, envPrefix+"HISTORY_TREND_WINDOW")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, envPrefix+"OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, envPrefix+"OBSERVABILITY_ADDRESS")
	setEnvBool(&cfg.Observability.EnableTracing, envPrefix+"OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, envPrefix+"OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.Insecure, envPrefix+"OBSERVABILITY_INSECURE")

	setEnvInt(&cfg.Caches.Files, envPrefix+"CACHES_FILES")
	setEnvString(&cfg.Logging.Level, envPrefix+"LOGGING_LEVEL")
	setEnvString(&cfg.Logging.File, envPrefix+"LOGGING_FILE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		} else {
			slog.Warn("ignoring malformed env override", "key", key, "value", val)
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		} else {
			slog.Warn("ignoring malformed env override", "key", key, "value", val)
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		} else {
			slog.Warn("ignoring malformed env override", "key", key, "value", val)
		}
	}
}
