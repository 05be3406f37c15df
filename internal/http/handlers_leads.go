package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/model"
	"frontdesk/internal/store"
)

func createLeadHandler(c *fiber.Ctx) error {
	var req LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.Name == "" {
		return missingField(c, "name")
	}

	st := c.Locals("store").(*store.Store)
	lead, err := st.CreateLead(c.Context(), &model.Lead{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Instagram: req.Instagram,
		Website:   req.Website,
		Status:    req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(LeadResponse{Success: true, Lead: lead})
}

func listLeadsHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	leads, err := st.ListLeads(c.Context(), int32(c.QueryInt("limit")))
	if err != nil {
		return fail(c, err)
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return c.JSON(LeadListResponse{Success: true, Leads: leads})
}

func getLeadHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	lead, err := st.GetLead(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(LeadResponse{Success: true, Lead: lead})
}

func updateLeadHandler(c *fiber.Ctx) error {
	var req LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.Name == "" {
		return missingField(c, "name")
	}

	st := c.Locals("store").(*store.Store)
	lead, err := st.UpdateLead(c.Context(), &model.Lead{
		ID:        c.Params("id"),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Instagram: req.Instagram,
		Website:   req.Website,
		Status:    req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(LeadResponse{Success: true, Lead: lead})
}

func deleteLeadHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	if err := st.DeleteLead(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
