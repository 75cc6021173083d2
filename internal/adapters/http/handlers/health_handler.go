package handlers

import (
	"context"
	"sort"

	"library-ledger/internal/config"
	"library-ledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// CheckFunc reports the health of one dependency
type CheckFunc func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg     *config.Config
	checks  map[string]CheckFunc
	monitor *services.OverdueMonitor
}

// NewHealthHandler creates a new health handler. monitor may be nil.
func NewHealthHandler(cfg *config.Config, monitor *services.OverdueMonitor) *HealthHandler {
	return &HealthHandler{
		cfg:     cfg,
		checks:  make(map[string]CheckFunc),
		monitor: monitor,
	}
}

// AddCheck registers a dependency reported by HealthCheck
func (h *HealthHandler) AddCheck(name string, check CheckFunc) {
	h.checks[name] = check
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "Library ledger " + h.cfg.Service + " service is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and dependency health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	checks := fiber.Map{"api": "healthy"}
	for _, name := range names {
		if err := h.checks[name](c.Context()); err != nil {
			checks[name] = "unhealthy"
			status = "degraded"
			continue
		}
		checks[name] = "healthy"
	}

	body := fiber.Map{
		"status":  status,
		"service": h.cfg.Service,
		"checks":  checks,
	}
	if h.monitor != nil {
		body["overdue_scan"] = h.monitor.LastScan()
	}

	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.JSON(body)
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Library ledger API v1",
		"version": "1.0.0",
		"service": h.cfg.Service,
		"fine_policy": fiber.Map{
			"grace_days": h.cfg.Fine.GraceDays,
			"daily_rate": h.cfg.Fine.DailyRate.StringFixed(2),
		},
	})
}
