package services

import (
	"context"

	"studioworks/internal/backend"
	"studioworks/internal/database"
	"studioworks/internal/metrics"
)

// HealthResult is the /health payload.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// HealthService implements the health service
type HealthService struct {
	client  *backend.Client
	service string
	version string
}

// NewHealthService creates a new health service
func NewHealthService(client *backend.Client, service, version string) *HealthService {
	return &HealthService{client: client, service: service, version: version}
}

// Check pings the store and refreshes the connection pool gauges.
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	result := &HealthResult{Status: "healthy", Service: s.service, Version: s.version, Database: "ok"}
	if err := s.client.Ping(ctx); err != nil {
		result.Status = "degraded"
		result.Database = err.Error()
		return result
	}
	if stats, err := database.Stats(s.client.DB()); err == nil {
		metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	}
	return result
}

// Healthy reports whether the result should be served with a 200.
func (r *HealthResult) Healthy() bool {
	return r.Status == "healthy"
}
