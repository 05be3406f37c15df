package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/store"
)

func outreachEmailHandler(c *fiber.Ctx) error {
	var req OutreachEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.LeadID == "" {
		return missingField(c, "leadId")
	}

	st := c.Locals("store").(*store.Store)
	lead, err := st.GetLead(c.Context(), req.LeadID)
	if err != nil {
		return fail(c, err)
	}

	svcs := c.Locals("services").(*Services)
	email, err := svcs.Outreach.GenerateEmail(c.Context(), lead)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(OutreachEmailResponse{Success: true, Email: email})
}
