package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/bizconfig"
	"frontdesk/internal/model"
	"frontdesk/internal/store"
)

func createBusinessHandler(c *fiber.Ctx) error {
	var req BusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.Name == "" {
		return missingField(c, "name")
	}

	st := c.Locals("store").(*store.Store)
	biz, err := st.CreateBusiness(c.Context(), &model.Business{
		Name:    req.Name,
		Website: req.Website,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(BusinessResponse{Success: true, Business: biz})
}

func listBusinessesHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	businesses, err := st.ListBusinesses(c.Context(), int32(c.QueryInt("limit")))
	if err != nil {
		return fail(c, err)
	}
	if businesses == nil {
		businesses = []model.Business{}
	}
	return c.JSON(BusinessListResponse{Success: true, Businesses: businesses})
}

func getBusinessHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	biz, err := st.GetBusiness(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(BusinessResponse{Success: true, Business: biz})
}

func updateBusinessHandler(c *fiber.Ctx) error {
	var req BusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.Name == "" {
		return missingField(c, "name")
	}

	st := c.Locals("store").(*store.Store)
	biz, err := st.UpdateBusiness(c.Context(), &model.Business{
		ID:      c.Params("id"),
		Name:    req.Name,
		Website: req.Website,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(BusinessResponse{Success: true, Business: biz})
}

// putBusinessConfigHandler accepts a config of any shape, normalizes it
// into the canonical schema and stores it whole. No partial updates.
func putBusinessConfigHandler(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return badJSON(c)
	}

	id := c.Params("id")
	cfg := bizconfig.Normalize(raw)
	cfg.ID = id

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fail(c, err)
	}

	st := c.Locals("store").(*store.Store)
	if err := st.SetBusinessConfig(c.Context(), id, payload); err != nil {
		return fail(c, err)
	}
	biz, err := st.GetBusiness(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(BusinessResponse{Success: true, Business: biz})
}

func deleteBusinessHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)
	if err := st.DeleteBusiness(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
