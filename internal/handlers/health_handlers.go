package handlers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles liveness and readiness probes
type HealthHandlers struct {
	db        *pgxpool.Pool
	jobStatus func() map[string]interface{}
}

func NewHealthHandlers(db *pgxpool.Pool, jobStatus func() map[string]interface{}) *HealthHandlers {
	return &HealthHandlers{db: db, jobStatus: jobStatus}
}

// Health handles GET /health
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready and checks the database connection
func (h *HealthHandlers) Ready(c echo.Context) error {
	start := time.Now()
	if err := h.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}

	resp := map[string]interface{}{
		"status":     "ok",
		"db_latency": time.Since(start).String(),
	}
	if h.jobStatus != nil {
		resp["jobs"] = h.jobStatus()
	}
	return c.JSON(http.StatusOK, resp)
}
