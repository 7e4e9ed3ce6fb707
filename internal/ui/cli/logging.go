package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogging installs a charmbracelet/log handler as the slog default.
// In UI mode logs go to a file so they do not tear the terminal UI; an
// explicit logging.file always wins.
func configureLogging(stderr io.Writer, levelName string, verbose bool, file string, uiMode bool) (func(), error) {
	level := charmlog.InfoLevel
	if strings.TrimSpace(levelName) != "" {
		parsed, err := charmlog.ParseLevel(levelName)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
		}
		level = parsed
	}
	if verbose {
		level = charmlog.DebugLevel
	}

	output := stderr
	closeFn := func() {}
	logPath := strings.TrimSpace(file)
	if logPath == "" && uiMode {
		logPath = resolveLogPath()
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir for %s: %w", logPath, err)
		}
		if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			return nil, fmt.Errorf("refusing to write logs to symlink path %s", logPath)
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logPath, err)
		}
		output = f
		closeFn = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(newLogger(output, level)))
	return closeFn, nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "incdeps", "incdeps.log")
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "incdeps", "incdeps.log")
	}
	return filepath.Join(os.TempDir(), "incdeps.log")
}
