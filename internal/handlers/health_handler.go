package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/mockwiseai/backend/internal/utils"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interviews",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
	defer cancel()

	names := make([]string, 0, len(handler.checks))
	for name := range handler.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := ReadinessResponse{Service: "interviews", Checks: make(map[string]ReadinessCheck, len(names))}
	ready := true
	for _, name := range names {
		if err := handler.checks[name](ctx); err != nil {
			response.Checks[name] = ReadinessCheck{Status: "failed", Message: err.Error()}
			ready = false
			continue
		}
		response.Checks[name] = ReadinessCheck{Status: "ok"}
	}

	if ready {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	utils.JSON(writer, http.StatusServiceUnavailable, response)
}
