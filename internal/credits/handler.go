package credits

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes credit endpoints.
type Handler struct {
	service      *Service
	resetCredits int
}

// NewHandler constructs a credit HTTP handler. resetCredits is the balance
// applied by the manual reset endpoint.
func NewHandler(service *Service, resetCredits int) *Handler {
	return &Handler{service: service, resetCredits: resetCredits}
}

type requestCreditsBody struct {
	Amount int `json:"amount"`
}

type requestResponse struct {
	RequestID string `json:"request_id"`
	Amount    int    `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toRequestResponse(req Request) requestResponse {
	return requestResponse{
		RequestID: req.ID,
		Amount:    req.Amount,
		Status:    req.Status,
		CreatedAt: req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Balance returns the caller's credit balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	balance, err := h.service.Balance(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return fiber.NewError(http.StatusNotFound, "account not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"credits": balance})
}

// Request creates a pending credit request for the caller.
func (h *Handler) Request(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var body requestCreditsBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	req, err := h.service.Submit(c.UserContext(), userID, body.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(toRequestResponse(req))
}

// MyRequests lists the caller's credit requests.
func (h *Handler) MyRequests(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	requests, err := h.service.ForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	return c.JSON(fiber.Map{"requests": out})
}

// PendingRequests lists all undecided requests for the admin queue.
func (h *Handler) PendingRequests(c *fiber.Ctx) error {
	requests, err := h.service.Pending(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(requests))
	for _, req := range requests {
		out = append(out, fiber.Map{
			"request_id": req.ID,
			"user_id":    req.UserID,
			"amount":     req.Amount,
			"created_at": req.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"requests": out})
}

type decisionBody struct {
	Decision string `json:"decision"`
}

// Decide approves or rejects a pending request.
func (h *Handler) Decide(c *fiber.Ctx) error {
	requestID := c.Params("id")

	var body decisionBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var approve bool
	switch body.Decision {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return fiber.NewError(http.StatusBadRequest, "decision must be approve or reject")
	}

	req, err := h.service.Decide(c.UserContext(), requestID, approve)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			return fiber.NewError(http.StatusNotFound, "request not found")
		case errors.Is(err, ErrRequestDecided):
			return fiber.NewError(http.StatusConflict, "request already decided")
		}
		return err
	}
	return c.JSON(toRequestResponse(req))
}

// Reset triggers the bulk balance reset for all regular users.
func (h *Handler) Reset(c *fiber.Ctx) error {
	affected, err := h.service.ledger.ResetAll(c.UserContext(), h.resetCredits, RoleUser)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reset_users": affected, "credits": h.resetCredits})
}
