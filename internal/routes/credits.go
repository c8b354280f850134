package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/credits"
)

// RegisterCreditRoutes wires user-facing credit endpoints.
func RegisterCreditRoutes(r fiber.Router, h *credits.Handler) {
	r.Get("/credits", h.Balance)
	r.Post("/credits/requests", h.Request)
	r.Get("/credits/requests", h.MyRequests)
}
