package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/credits"
)

// RegisterAdminRoutes wires the admin credit queue and manual reset.
func RegisterAdminRoutes(r fiber.Router, h *credits.Handler) {
	r.Get("/credits/requests", h.PendingRequests)
	r.Post("/credits/requests/:id/decision", h.Decide)
	r.Post("/credits/reset", h.Reset)
}
