package scan

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/credits"
)

// Handler exposes the scan submission endpoint.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler constructs a scan HTTP handler. timeout bounds a whole scan,
// including every corpus read.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

type submitRequest struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}

// Submit runs a similarity scan for the authenticated caller.
func (h *Handler) Submit(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.service.Submit(ctx, SubmitInput{
		UserID:   userID,
		FileName: req.FileName,
		Text:     req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, credits.ErrInsufficientCredits):
			return fiber.NewError(http.StatusPaymentRequired, "not enough credits")
		case errors.Is(err, context.DeadlineExceeded):
			return fiber.NewError(http.StatusGatewayTimeout, "scan timed out")
		}
		return fiber.NewError(http.StatusInternalServerError, "scan failed")
	}

	return c.Status(http.StatusCreated).JSON(result)
}
