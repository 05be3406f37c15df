package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/metrics"
)

// extractConfigHandler turns stored raw crawl data into a structured
// receptionist config via one LLM call and persists it on the owner.
func extractConfigHandler(c *fiber.Ctx) error {
	var req ExtractConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	key := req.Key()
	if err := key.Validate(); err != nil {
		return fail(c, err)
	}

	svcs := c.Locals("services").(*Services)
	cfg, err := svcs.Extractor.Extract(c.Context(), key, req.Domain)
	metrics.RecordLLMCall("extract", err == nil)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ExtractConfigResponse{Success: true, Config: cfg})
}
