package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the backing database is reachable. *sql.DB
// satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers load-balancer and monitoring probes.
type HealthHandler struct {
	DB Pinger
}

// NewHealthHandler constructs a HealthHandler. The pinger must be
// non-nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	if db == nil {
		panic("nil pinger passed to NewHealthHandler")
	}
	return &HealthHandler{DB: db}
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Check handles GET /healthz. It verifies database connectivity with
// a short ping and reports 200 UP or 503 DOWN so probes can act on
// the status code alone.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "UP",
		Database:  "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.DB.PingContext(ctx); err != nil {
		resp.Status = "DOWN"
		resp.Database = err.Error()
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
