// # internal/core/app/health.go
package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// HealthService reports whether the engine and the optional stores are
// usable. Served on /health by the observability server.
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

	if s.app == nil {
		status.Status = "down"
		status.Components["app"] = "missing"
		return status
	}

	if s.app.Engine == nil {
		status.Status = "degraded"
		status.Components["engine"] = "missing"
	} else {
		status.Components["engine"] = "ok"
	}

	if s.app.history != nil {
		status.Components["history"] = fmt.Sprintf("ok (%s)", s.app.history.Path())
	} else if s.app.Config.DB.IsEnabled() {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	} else {
		status.Components["history"] = "disabled"
	}

	if s.app.spool != nil {
		if pending, err := s.app.spool.PendingCount(ctx); err != nil {
			status.Status = "degraded"
			status.Components["spool"] = fmt.Sprintf("error: %v", err)
		} else {
			status.Components["spool"] = fmt.Sprintf("ok (%d pending)", pending)
		}
	} else if s.app.Config.DB.Spool.Enabled {
		status.Status = "degraded"
		status.Components["spool"] = "missing but enabled in config"
	} else {
		status.Components["spool"] = "disabled"
	}

	return status
}
