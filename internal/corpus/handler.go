package corpus

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes document metadata endpoints.
type Handler struct {
	store *Store
}

// NewHandler constructs a document HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Mine lists the caller's own documents.
func (h *Handler) Mine(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	docs, err := h.store.ListByOwner(c.UserContext(), userID)
	if err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fiber.Map{
			"document_id": doc.ID,
			"file_name":   doc.DisplayName,
			"created_at":  doc.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"documents": out})
}
