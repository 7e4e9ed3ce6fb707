package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incdeps/internal/core/errors"
	"incdeps/internal/engine/parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
watch_paths = ["./src", " ./include "]

[scan]
extensions = [".h", ".cpp"]
include_tests = true

[exclude]
dirs = [".git", "third_party"]
files = ["*_generated.h"]

[watch]
debounce = "1s"
min_interval = "5s"

[output]
root = "out"
mermaid = "graph.mmd"
dot = "graph.dot"
svg = "graph.svg"
keyword = "core"

[[output.update_markdown]]
file = "README.md"
marker = "deps"

[history]
enabled = true
project = "engine"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, []string{"./src", "./include"}, cfg.WatchPaths)
	assert.Equal(t, []string{".h", ".cpp"}, cfg.Scan.Extensions)
	assert.Equal(t, parser.DefaultTestMarkers, cfg.Scan.TestMarkers)
	assert.True(t, cfg.Scan.IncludeTests)
	assert.Equal(t, []string{".git", "third_party"}, cfg.Exclude.Dirs)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 5*time.Second, cfg.Watch.MinInterval)
	assert.Equal(t, "core", cfg.Output.Keyword)
	require.Len(t, cfg.Output.UpdateMarkdown, 1)
	assert.Equal(t, "deps", cfg.Output.UpdateMarkdown[0].Marker)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "engine", cfg.History.Project)
	assert.Equal(t, ".incdeps/history.db", cfg.History.Path)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"."}, cfg.WatchPaths)
	assert.Equal(t, parser.DefaultExtensions, cfg.Scan.Extensions)
	assert.Equal(t, []string{".git", ".incdeps"}, cfg.Exclude.Dirs)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 2*time.Second, cfg.Watch.MinInterval)
	assert.Equal(t, ".", cfg.Output.Root)
	assert.Empty(t, cfg.Output.Mermaid)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.History.TrendWindow)
	assert.Equal(t, 4096, cfg.Caches.Files)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, Validate(cfg))
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[scan]\nextentions = [\".h\"]\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "scan.extentions")
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "watch_paths = [\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "Version", mutate: func(c *Config) { c.Version = 3 }, want: "unsupported config version"},
		{name: "NoExtensions", mutate: func(c *Config) { c.Scan.Extensions = nil }, want: "scan.extensions"},
		{name: "ExtensionWithGlob", mutate: func(c *Config) { c.Scan.Extensions = []string{"*.h"} }, want: "plain extension"},
		{name: "BadGlob", mutate: func(c *Config) { c.Exclude.Files = []string{"[abc"} }, want: "does not compile"},
		{name: "NegativeDebounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }, want: "watch.debounce"},
		{name: "SVGSuffix", mutate: func(c *Config) { c.Output.SVG = "graph.png" }, want: "output.svg"},
		{name: "MarkdownMarker", mutate: func(c *Config) {
			c.Output.UpdateMarkdown = []MarkdownInjection{{File: "README.md"}}
		}, want: "marker"},
		{name: "HistoryPath", mutate: func(c *Config) { c.History.Enabled = true; c.History.Path = " " }, want: "history.path"},
		{name: "TracingEndpoint", mutate: func(c *Config) { c.Observability.EnableTracing = true }, want: "otlp_endpoint"},
		{name: "LogLevel", mutate: func(c *Config) { c.Logging.Level = "loud" }, want: "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("INCDEPS_WATCH_PATHS", "a,b")
	t.Setenv("INCDEPS_SCAN_INCLUDE_TESTS", "TRUE")
	t.Setenv("INCDEPS_WATCH_DEBOUNCE", "250ms")
	t.Setenv("INCDEPS_HISTORY_ENABLED", "true")
	t.Setenv("INCDEPS_CACHES_FILES", "12")
	t.Setenv("INCDEPS_OUTPUT_KEYWORD", "net")
	t.Setenv("INCDEPS_WATCH_MIN_INTERVAL", "not-a-duration")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, []string{"a", "b"}, cfg.WatchPaths)
	assert.True(t, cfg.Scan.IncludeTests)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 12, cfg.Caches.Files)
	assert.Equal(t, "net", cfg.Output.Keyword)
	assert.Equal(t, 2*time.Second, cfg.Watch.MinInterval, "malformed values are ignored")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INCDEPS_TEST_DOTENV_VALUE=from-file\n"), 0o644))
	t.Setenv("INCDEPS_TEST_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("INCDEPS_TEST_DOTENV_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("INCDEPS_TEST_DOTENV_VALUE"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Output.Root = "docs"

	paths, err := ResolvePaths(cfg, base)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "docs"), paths.OutputRoot)
	assert.Equal(t, filepath.Join(base, ".incdeps", "history.db"), paths.HistoryPath)
	assert.Equal(t, filepath.Join(base, "docs", "graph.mmd"), paths.OutputPath("graph.mmd"))
	assert.Empty(t, paths.OutputPath(""))

	abs := filepath.Join(base, "abs.svg")
	assert.Equal(t, abs, paths.OutputPath(abs))

	_, err = ResolvePaths(cfg, " ")
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	assert.Empty(t, FindConfigFile(nested))

	path := filepath.Join(root, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0o644))
	assert.Equal(t, path, FindConfigFile(nested))
}
