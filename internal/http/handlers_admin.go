package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/store"
)

// createAPIKeyHandler mints a new API key. Admin only; the raw key is
// returned once and never stored.
func createAPIKeyHandler(c *fiber.Ctx) error {
	var req CreateAPIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.Label == "" {
		return missingField(c, "label")
	}

	st := c.Locals("store").(*store.Store)
	raw, key, err := st.CreateRandomAPIKey(c.Context(), req.Label, req.IsAdmin, req.RateLimitPerMinute)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(CreateAPIKeyResponse{
		Success: true,
		ID:      key.ID.String(),
		Key:     raw,
		Label:   key.Label,
	})
}
