package http

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/config"
)

func screenshotHandler(c *fiber.Ctx) error {
	var req ScreenshotRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.URL == "" {
		return missingField(c, "url")
	}

	cfg := c.Locals("config").(*config.Config)
	if !cfg.Screenshot.Enabled {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Success: false,
			Code:    "SCREENSHOT_DISABLED",
			Error:   "screenshot capture is disabled",
		})
	}

	svcs := c.Locals("services").(*Services)
	png, err := svcs.Screenshot.Capture(c.Context(), req.URL, req.FullPage)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ScreenshotResponse{
		Success: true,
		Format:  "png",
		Data:    base64.StdEncoding.EncodeToString(png),
	})
}
