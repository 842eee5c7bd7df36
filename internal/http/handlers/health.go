package handlers

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// HealthHandler reports liveness. It never depends on downstream services.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

func NewHealthHandler(environment string) *HealthHandler {
	if environment == "" {
		environment = "development"
	}
	return &HealthHandler{environment: environment, now: time.Now}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   h.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Environment: h.environment,
	})
}
