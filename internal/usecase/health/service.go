// Package health aggregates component health for the /health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates answer generation is unavailable but retrieval works.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries at all.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// IndexChecker reports whether a usable index is loaded.
type IndexChecker interface {
	Ready() bool
}

// GenerationChecker verifies the answer generator's upstream availability.
type GenerationChecker interface {
	HealthCheck(ctx context.Context) error
}

// Service coordinates health checks.
type Service struct {
	index      IndexChecker
	generation GenerationChecker
}

// New creates a Service. generation can be nil when no generator is
// configured; the check is then omitted entirely since retrieval-only
// operation is a supported mode, not a failure.
func New(index IndexChecker, generation GenerationChecker) *Service {
	return &Service{index: index, generation: generation}
}

// Check runs health checks against all components. A missing index makes
// the service unhealthy; a failing generator only degrades it because
// queries still return retrieval results.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if s.index.Ready() {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
		status = Unhealthy
	}

	if s.generation != nil {
		if err := s.generation.HealthCheck(ctx); err != nil {
			checks["generation"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["generation"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
