package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/textscan/textscan/internal/identity"
)

// Handler exposes login.
type Handler struct {
	identities *identity.Service
	tokens     *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(identities *identity.Service, tokens *Service) *Handler {
	return &Handler{identities: identities, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.identities.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"access_token": token.AccessToken,
		"expires_in":   token.ExpiresIn,
		"user_id":      user.ID,
		"role":         user.Role,
	})
}
