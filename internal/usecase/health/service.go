package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an external provider is failing; search still
	// works, but embedding-dependent modes may not.
	Degraded Status = "degraded"
	// Unhealthy indicates the corpus store is unreachable.
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

type namedChecker struct {
	name    string
	checker ProviderChecker
}

// Service coordinates health checks across the store and model providers.
type Service struct {
	db        DBPinger
	providers []namedChecker
}

// New creates a Service checking the corpus store.
func New(db DBPinger) *Service {
	return &Service{db: db}
}

// WithProvider registers an external provider check under the given name.
func (s *Service) WithProvider(name string, c ProviderChecker) *Service {
	if c != nil {
		s.providers = append(s.providers, namedChecker{name: name, checker: c})
	}
	return s
}

// Check runs all health checks. The store failing is fatal for the whole
// service; a provider failing only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for _, p := range s.providers {
		if err := p.checker.HealthCheck(ctx); err != nil {
			checks[p.name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[p.name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
