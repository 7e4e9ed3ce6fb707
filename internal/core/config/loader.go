package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"incdeps/internal/core/errors"
	"incdeps/internal/engine/parser"
)

// Load reads, defaults and validates a TOML configuration file. Environment
// overrides are applied after defaults and before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("decode %s", path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errors.Newf(errors.CodeValidationError, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	return finish(&cfg)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadOrDefault loads path when given. With an empty path it loads
// incdeps.toml from the working directory if present and falls back to
// defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}

	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = append([]string(nil), parser.DefaultExtensions...)
	}
	if cfg.Scan.TestMarkers == nil {
		cfg.Scan.TestMarkers = append([]string(nil), parser.DefaultTestMarkers...)
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", ".incdeps"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MinInterval == 0 {
		cfg.Watch.MinInterval = 2 * time.Second
	}

	if strings.TrimSpace(cfg.Output.Root) == "" {
		cfg.Output.Root = "."
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".incdeps/history.db"
	}
	if strings.TrimSpace(cfg.History.Project) == "" {
		cfg.History.Project = "default"
	}
	if cfg.History.TrendWindow == 0 {
		cfg.History.TrendWindow = 24 * time.Hour
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}

	if cfg.Caches.Files == 0 {
		cfg.Caches.Files = 4096
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
}

func normalize(cfg *Config) {
	cfg.WatchPaths = trimAll(cfg.WatchPaths)
	cfg.Scan.Extensions = trimAll(cfg.Scan.Extensions)
	cfg.Scan.TestMarkers = trimAll(cfg.Scan.TestMarkers)
	cfg.Exclude.Dirs = trimAll(cfg.Exclude.Dirs)
	cfg.Exclude.Files = trimAll(cfg.Exclude.Files)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	for i := range cfg.Output.UpdateMarkdown {
		entry := &cfg.Output.UpdateMarkdown[i]
		entry.File = strings.TrimSpace(entry.File)
		entry.Marker = strings.TrimSpace(entry.Marker)
	}
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
