package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/errs"
)

// fail renders an error through the shared envelope, mapping the error
// taxonomy onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(errs.HTTPStatus(err)).JSON(ErrorResponse{
		Success: false,
		Code:    string(errs.CodeOf(err)),
		Error:   err.Error(),
	})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Code:    "BAD_REQUEST_INVALID_JSON",
		Error:   "Bad request, malformed JSON",
	})
}

func missingField(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Code:    "BAD_REQUEST",
		Error:   "Missing required field '" + field + "'",
	})
}
