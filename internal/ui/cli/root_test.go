package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incdeps/internal/core/errors"
)

// project writes a two-module tree plus a config file and returns the config
// path and the source root.
func project(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.cpp"), []byte("#include \"b.h\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.h"), []byte("class B {};\n"), 0o644))

	cfgPath := filepath.Join(dir, "incdeps.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version = 1\n"), 0o644))
	return cfgPath, src
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "incdeps v1.2.3\ncommit: abc123\n", out)
}

func TestAnalyze_PrintsReport(t *testing.T) {
	cfgPath, src := project(t)

	out, err := execute(t, "analyze", "--config", cfgPath, src)
	require.NoError(t, err)
	assert.Contains(t, out, "# Include dependency report")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "Max graph depth")
}

func TestAnalyze_PrintsMermaid(t *testing.T) {
	cfgPath, src := project(t)

	out, err := execute(t, "analyze", "--config", cfgPath, "--print", "mermaid", src)
	require.NoError(t, err)
	assert.Equal(t, "graph LR\n    b\n    a\n    a --> b\n", out)
}

func TestAnalyze_RejectsUnknownPrintMode(t *testing.T) {
	cfgPath, src := project(t)

	_, err := execute(t, "analyze", "--config", cfgPath, "--print", "html", src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestAnalyze_Trace(t *testing.T) {
	cfgPath, src := project(t)

	out, err := execute(t, "analyze", "--config", cfgPath, "--trace", "a:b", src)
	require.NoError(t, err)
	assert.Equal(t, "a -> b\n", out)

	_, err = execute(t, "analyze", "--config", cfgPath, "--trace", "b:a", src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = execute(t, "analyze", "--config", cfgPath, "--trace", "a:zzz", src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestAnalyze_Impact(t *testing.T) {
	cfgPath, src := project(t)

	out, err := execute(t, "analyze", "--config", cfgPath, "--impact", "b.h", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Impact of b")
	assert.Contains(t, out, "direct dependents (1): a")
	assert.Contains(t, out, "total affected: 1")
}

func TestAnalyze_Query(t *testing.T) {
	cfgPath, src := project(t)

	out, err := execute(t, "analyze", "--config", cfgPath, "--query", "SELECT modules WHERE fan_in >= 1", src)
	require.NoError(t, err)
	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "b ")
	assert.NotContains(t, out, "a ")

	_, err = execute(t, "analyze", "--config", cfgPath, "--query", "SELECT files", src)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestAnalyze_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "incdeps.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version = 1\nunknown_key = true\n"), 0o644))

	_, err := execute(t, "analyze", "--config", cfgPath, dir)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestHistory_AfterRuns(t *testing.T) {
	cfgPath, src := project(t)

	_, err := execute(t, "history", "--config", cfgPath)
	require.Error(t, err, "no snapshots yet")

	for i := 0; i < 2; i++ {
		_, err := execute(t, "analyze", "--config", cfgPath, "--history", "--print", "none", src)
		require.NoError(t, err)
	}

	out, err := execute(t, "history", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"scan_count": 2`)

	out, err = execute(t, "history", "--config", cfgPath, "--limit", "1")
	require.NoError(t, err)
	lines := bytes.Count([]byte(out), []byte("\n"))
	assert.Equal(t, 2, lines, "header plus one row:\n%s", out)
}

func TestParseTrace(t *testing.T) {
	tests := []struct {
		raw      string
		from, to string
		wantErr  bool
	}{
		{raw: "a:b", from: "a", to: "b"},
		{raw: " net : util ", from: "net", to: "util"},
		{raw: "a", wantErr: true},
		{raw: ":b", wantErr: true},
		{raw: "a:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			from, to, err := parseTrace(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestParseSince(t *testing.T) {
	ts, err := parseSince("")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	ts, err = parseSince("2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), ts)

	ts, err = parseSince("2026-02-03T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC), ts)

	_, err = parseSince("yesterday")
	require.Error(t, err)
}
