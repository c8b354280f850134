package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/corpus"
	"github.com/textscan/textscan/internal/scan"
)

// RegisterScanRoutes wires scan submission and document listing endpoints.
func RegisterScanRoutes(r fiber.Router, h *scan.Handler, docs *corpus.Handler, rateLimiter fiber.Handler) {
	r.Post("/scans", rateLimiter, h.Submit)
	r.Get("/documents", docs.Mine)
}
