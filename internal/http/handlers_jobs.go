package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"frontdesk/internal/jobs"
	"frontdesk/internal/store"
)

// enqueueScrapeHandler queues a scrape job for the worker instead of
// blocking the request on a two-minute poll loop.
func enqueueScrapeHandler(c *fiber.Ctx) error {
	var req EnqueueScrapeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.URL == "" {
		return missingField(c, "url")
	}
	if err := req.Key().Validate(); err != nil {
		return fail(c, err)
	}

	st := c.Locals("store").(*store.Store)

	id := func() uuid.UUID {
		if id, err := uuid.NewV7(); err == nil {
			return id
		}
		return uuid.New()
	}()

	if _, err := st.CreateJob(c.Context(), id, jobs.TypeScrapeSite, req.URL, req); err != nil {
		return fail(c, err)
	}

	if loggerVal := c.Locals("logger"); loggerVal != nil {
		if lg, ok := loggerVal.(interface{ Info(msg string, args ...any) }); ok {
			lg.Info("scrape_job_enqueued", "job_id", id.String(), "url", req.URL)
		}
	}

	return c.JSON(EnqueueScrapeResponse{
		Success: true,
		ID:      id.String(),
		URL:     c.Protocol() + "://" + c.Hostname() + "/v1/jobs/" + id.String(),
	})
}

func jobStatusHandler(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Invalid job id",
		})
	}

	st := c.Locals("store").(*store.Store)
	job, err := st.GetJob(c.Context(), jobID)
	if err != nil {
		return fail(c, err)
	}

	resp := JobStatusResponse{
		Success: true,
		ID:      job.ID.String(),
		Type:    job.Type,
		Status:  job.Status,
		Output:  job.Output,
	}
	if job.Error.Valid {
		resp.Error = job.Error.String
	}
	return c.JSON(resp)
}
