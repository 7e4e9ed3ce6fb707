package app

import (
	"context"
	"fmt"
	"time"

	"incdeps/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	LastRun    time.Time         `json:"last_run,omitempty"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	s.app.stateMu.RLock()
	current, lastRun, lastErr := s.app.current, s.app.lastRun, s.app.lastErr
	s.app.stateMu.RUnlock()
	status.LastRun = lastRun

	// Graph
	switch {
	case current == nil && lastErr != nil:
		status.Status = "degraded"
		status.Components["graph"] = "failed: " + lastErr.Error()
	case current == nil:
		status.Status = "starting"
		status.Components["graph"] = "not analyzed yet"
	case lastErr != nil:
		status.Status = "degraded"
		status.Components["graph"] = fmt.Sprintf("stale (%d modules), last run failed: %v", current.ModuleCount(), lastErr)
	default:
		status.Components["graph"] = fmt.Sprintf("ok (%d files, %d modules)", current.FileCount(), current.ModuleCount())
	}

	// History
	if s.app.history != nil {
		if err := s.app.history.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Components["history"] = "unreachable: " + err.Error()
		} else {
			status.Components["history"] = "ok"
		}
	} else if s.app.Config().History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if s.app.cache != nil {
		status.Components["parse_cache"] = fmt.Sprintf("ok (%d entries)", s.app.cache.Len())
	}
	status.Components["memory"] = fmt.Sprintf("%d MB heap", util.GetHeapAllocMB())

	return status
}
