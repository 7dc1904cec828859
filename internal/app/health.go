// Package app provides application use cases.
package app

import "context"

// HealthUsecase defines the liveness check use case.
type HealthUsecase interface {
	Handle(ctx context.Context) (HealthResult, error)
}

// HealthResult is the health endpoint payload. Status says the process is
// up; it deliberately ignores the server connection, which /api/status
// reports with its own staleness flag.
type HealthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthService implements HealthUsecase.
type HealthService struct {
	Version string
}

// Handle reports the process as healthy with its build version.
func (s HealthService) Handle(ctx context.Context) (HealthResult, error) {
	return HealthResult{
		Status:  "ok",
		Version: s.Version,
	}, nil
}
