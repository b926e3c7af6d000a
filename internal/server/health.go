package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// SystemStatus represents the health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Checker probes one dependency. A failing critical check makes the whole
// service critical; any other failure degrades it.
type Checker struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status    SystemStatus `json:"status"`
	LatencyMs int64        `json:"latency_ms"`
	Error     string       `json:"error,omitempty"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus               `json:"system_status"`
	Components   map[string]ComponentHealth `json:"components"`
}

const checkTimeout = 3 * time.Second

func (s *Server) checkHealth(ctx context.Context) HealthReport {
	results := make([]ComponentHealth, len(s.deps.Checks))

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var g errgroup.Group
	for i, chk := range s.deps.Checks {
		g.Go(func() error {
			start := time.Now()
			err := chk.Check(ctx)
			res := ComponentHealth{Status: StatusHealthy, LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				res.Error = err.Error()
				res.Status = StatusDegraded
				if chk.Critical {
					res.Status = StatusCritical
				}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	report := HealthReport{SystemStatus: StatusHealthy, Components: make(map[string]ComponentHealth, len(results))}
	for i, res := range results {
		report.Components[s.deps.Checks[i].Name] = res
		// Worst case wins
		switch {
		case res.Status == StatusCritical:
			report.SystemStatus = StatusCritical
		case res.Status == StatusDegraded && report.SystemStatus == StatusHealthy:
			report.SystemStatus = StatusDegraded
		}
	}
	return report
}

func (s *Server) handleHealth(c *gin.Context) {
	report := s.checkHealth(c.Request.Context())
	status := http.StatusOK
	if report.SystemStatus == StatusCritical {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": report.SystemStatus})
}

func (s *Server) handleDetailed(c *gin.Context) {
	c.JSON(http.StatusOK, s.checkHealth(c.Request.Context()))
}
