package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports liveness and whether the database client came up.
// GET /api/therapy/health
func (h *ApplicationHandler) HealthCheck(c *fiber.Ctx) error {
	database := "disconnected"
	if h.Exercises != nil {
		database = "connected"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"service":  "Therapy Exercises API",
		"database": database,
	})
}

// ServiceInfo describes the API surface for client developers.
// GET /api/therapy/info
func (h *ApplicationHandler) ServiceInfo(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"service": "CVAPed Therapy Exercises API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"assess":      "/api/fluency/assess",
			"assessments": "/api/fluency/assessments",
			"exercises":   "/api/fluency-exercises",
			"health":      "/api/therapy/health",
			"metrics":     "/metrics",
			"docs":        "/swagger/index.html",
		},
		"features": []string{
			"Audio fluency assessment with word-level timings",
			"Speaking rate, pause and disfluency scoring",
			"Fluency therapy exercise management",
			"CRUD operations with role-based access",
			"Exercise seeding functionality",
			"Active/inactive toggle for exercises",
			"Per-patient assessment history",
		},
	})
}
