package health

import (
	"context"
	"time"

	"legaldoc-backend/internal/shared/config"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Service aggregates component health checks for the health endpoint.
type Service struct {
	checks map[string]Check
}

// NewService constructs a health service. Components without a registered
// check report "unknown".
func NewService() *Service {
	return &Service{checks: make(map[string]Check)}
}

// RegisterCheck adds or replaces a component check.
func (s *Service) RegisterCheck(name string, check Check) {
	s.checks[name] = check
}

// Status reports overall and per-component health. Component names with no
// check are reported as unknown rather than failing the whole service.
func (s *Service) Status(ctx context.Context, components ...string) map[string]any {
	services := make(map[string]string, len(components))
	healthy := true
	for _, name := range components {
		check, ok := s.checks[name]
		if !ok {
			services[name] = "unknown"
			continue
		}
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(checkCtx)
		cancel()
		if err != nil {
			services[name] = "unhealthy"
			healthy = false
			continue
		}
		services[name] = "healthy"
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	return map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"version":   config.Version,
		"services":  services,
	}
}
