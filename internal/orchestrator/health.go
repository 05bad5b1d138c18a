package orchestrator

import (
	"context"
)

// Service health states
const (
	ServiceHealthy   = "healthy"
	ServiceUnhealthy = "unhealthy"
)

// Overall status values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthReport aggregates service health for the /health endpoint.
type HealthReport struct {
	Status   string         `json:"status"`
	Services ServiceHealths `json:"services"`
}

// ServiceHealths holds per-service health states.
type ServiceHealths struct {
	LLM    string `json:"llm"`
	Linear string `json:"linear"`
}

// Health probes tracker connectivity (list one issue) and checks LLM
// configuration by API-key presence only; no live LLM call is made.
// Overall status is healthy only when both services are.
func (o *Orchestrator) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Services: ServiceHealths{
			LLM:    ServiceUnhealthy,
			Linear: ServiceUnhealthy,
		},
	}

	if o.analyzer.Configured() {
		report.Services.LLM = ServiceHealthy
	}

	if _, err := o.tracker.SearchIssues(ctx, o.teamID, "", 1); err == nil {
		report.Services.Linear = ServiceHealthy
	} else {
		o.log.Warn("Tracker health probe failed", "error", err)
	}

	report.Status = StatusDegraded
	if report.Services.LLM == ServiceHealthy && report.Services.Linear == ServiceHealthy {
		report.Status = StatusHealthy
	}

	return report
}
