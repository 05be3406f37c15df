package http

import (
	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/errs"
	"frontdesk/internal/metrics"
	"frontdesk/internal/model"
	"frontdesk/internal/store"
)

// recordCrawlOutcome feeds the per-outcome crawl job counter. The
// synchronous handler and the queued worker both report through here so
// the outcome labels mean the same thing on either path.
func recordCrawlOutcome(err error) {
	switch {
	case err == nil:
		metrics.RecordCrawlJob("completed")
	case errs.Is(err, errs.CodeTimeout):
		metrics.RecordCrawlJob("timeout")
	case errs.Is(err, errs.CodeJobFailed):
		metrics.RecordCrawlJob("failed")
	default:
		metrics.RecordCrawlJob("error")
	}
}

// sitesScrapeHandler runs the crawl synchronously: start the remote
// job, wait for it, normalize and upsert the result under the owner
// key. Callers who do not want to block use POST /v1/jobs/scrape.
func sitesScrapeHandler(c *fiber.Ctx) error {
	var req ScrapeSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.URL == "" {
		return missingField(c, "url")
	}
	key := req.Key()
	if err := key.Validate(); err != nil {
		return fail(c, err)
	}

	svcs := c.Locals("services").(*Services)
	st := c.Locals("store").(*store.Store)

	result, err := svcs.Crawler.ScrapeSite(c.Context(), req.URL)
	recordCrawlOutcome(err)
	if err != nil {
		return fail(c, err)
	}

	record, err := st.UpsertRawCrawl(c.Context(), key, result)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ScrapeSiteResponse{Success: true, Record: record})
}

// rawCrawlHandler returns the stored raw crawl record for
// ?leadId= or ?businessId=.
func rawCrawlHandler(c *fiber.Ctx) error {
	key := model.OwnerKey{
		LeadID:     c.Query("leadId"),
		BusinessID: c.Query("businessId"),
	}
	if err := key.Validate(); err != nil {
		return fail(c, err)
	}

	st := c.Locals("store").(*store.Store)
	record, err := st.GetRawCrawl(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Success: false,
			Code:    "NOT_FOUND",
			Error:   "no raw crawl data stored for " + key.String(),
		})
	}
	return c.JSON(RawCrawlResponse{Success: true, Record: record})
}
