package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	coreapp "incdeps/internal/core/app"
	"incdeps/internal/core/config"
	"incdeps/internal/shared/observability"
)

// session is everything one command invocation needs: the loaded config,
// the app and the optional observability plumbing.
type session struct {
	app        *coreapp.App
	cfg        *config.Config
	configPath string
	server     *ObservabilityServer
	shutdown   []func(context.Context) error
}

type sessionOptions struct {
	dirs   []string
	uiMode bool
	mutate func(*config.Config)
}

func (o *globalOptions) openSession(cmd *cobra.Command, so sessionOptions) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	configPath := strings.TrimSpace(o.configPath)
	if configPath == "" {
		configPath = config.FindConfigFile(cwd)
	}
	baseDir := cwd
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("resolve config path %q: %w", configPath, err)
		}
		configPath = abs
		baseDir = filepath.Dir(abs)
	}

	if err := config.LoadDotEnv(filepath.Join(baseDir, ".env")); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault("")
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(so.dirs) > 0 {
		roots := make([]string, 0, len(so.dirs))
		for _, dir := range so.dirs {
			roots = append(roots, config.ResolveRelative(cwd, dir))
		}
		cfg.WatchPaths = roots
	}
	if so.mutate != nil {
		so.mutate(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	cleanup, err := configureLogging(cmd.ErrOrStderr(), cfg.Logging.Level, o.verbose, cfg.Logging.File, so.uiMode)
	if err != nil {
		return nil, err
	}
	o.logCleanup = cleanup
	if configPath != "" {
		slog.Debug("using config", "path", configPath)
	}

	s := &session{cfg: cfg, configPath: configPath}

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(cmd.Context(), cfg.Observability.OTLPEndpoint, cfg.Observability.Insecure)
		if err != nil {
			return nil, err
		}
		s.shutdown = append(s.shutdown, shutdown)
	}

	a, err := coreapp.New(cfg, baseDir)
	if err != nil {
		s.close()
		return nil, err
	}
	s.app = a

	if cfg.Observability.Enabled {
		s.server = NewObservabilityServer(cfg.Observability.Address, coreapp.NewHealthService(a))
		if err := s.server.Start(cmd.Context()); err != nil {
			s.close()
			return nil, err
		}
	}

	return s, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Stop(ctx); err != nil {
			slog.Warn("failed to stop observability server", "error", err)
		}
	}
	for _, fn := range s.shutdown {
		if err := fn(ctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}
	if s.app != nil {
		if err := s.app.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}
