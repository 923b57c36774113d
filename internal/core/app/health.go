package app

import (
	"context"
	"fmt"
	"time"

	"layered/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
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

	if s.app.Parser != nil {
		status.Components["parser"] = "ok"
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	s.app.resultsMu.RLock()
	files := len(s.app.results)
	diagnostics := 0
	for _, res := range s.app.results {
		diagnostics += len(res.Diagnostics)
	}
	lastRun := s.app.lastRun
	s.app.resultsMu.RUnlock()

	if lastRun.IsZero() {
		status.Components["runs"] = "none yet"
	} else {
		status.Components["runs"] = fmt.Sprintf("ok (%d files, %d diagnostics, last %s)", files, diagnostics, lastRun.UTC().Format(time.RFC3339))
	}
	status.Components["memory"] = fmt.Sprintf("%d MB heap", util.HeapAllocMB())

	return status
}
