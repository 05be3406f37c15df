package http

import (
	"context"
	"encoding/json"
	"log/slog"

	"frontdesk/internal/errs"
	"frontdesk/internal/jobs"
	"frontdesk/internal/metrics"
	"frontdesk/internal/store"
)

// ScrapeWorker executes queued scrape and extract jobs. It implements
// the jobs executor interfaces and is registered with the runner at
// startup.
type ScrapeWorker struct {
	store  *store.Store
	svcs   *Services
	logger *slog.Logger
}

func NewScrapeWorker(st *store.Store, svcs *Services, logger *slog.Logger) *ScrapeWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapeWorker{store: st, svcs: svcs, logger: logger}
}

// scrapeJobInput mirrors the enqueue request stored in jobs.input.
type scrapeJobInput struct {
	LeadID     string `json:"leadId,omitempty"`
	BusinessID string `json:"businessId,omitempty"`
	URL        string `json:"url"`
}

// ExecuteScrapeSiteJob runs the crawl-and-store pipeline for one queued
// job: mark running, crawl, upsert, record the output, mark terminal.
func (w *ScrapeWorker) ExecuteScrapeSiteJob(ctx context.Context, job store.Job) {
	if err := w.store.UpdateJobStatus(ctx, job.ID, string(jobs.StatusRunning), nil); err != nil {
		w.logger.Error("failed to mark job running", "job_id", job.ID, "error", err)
		return
	}

	var input scrapeJobInput
	if err := json.Unmarshal(job.Input, &input); err != nil {
		w.failJob(ctx, job, errs.Wrap(errs.CodeInvalidArg, err, "malformed job input"))
		return
	}

	key := OwnerRequest{LeadID: input.LeadID, BusinessID: input.BusinessID}.Key()
	if err := key.Validate(); err != nil {
		w.failJob(ctx, job, err)
		return
	}

	result, err := w.svcs.Crawler.ScrapeSite(ctx, input.URL)
	recordCrawlOutcome(err)
	if err != nil {
		w.failJob(ctx, job, err)
		return
	}

	record, err := w.store.UpsertRawCrawl(ctx, key, result)
	if err != nil {
		w.failJob(ctx, job, err)
		return
	}

	output, err := json.Marshal(map[string]any{
		"recordId":   record.ID,
		"totalPages": len(result.Pages),
	})
	if err == nil {
		if err := w.store.SetJobOutput(ctx, job.ID, output); err != nil {
			w.logger.Error("failed to store job output", "job_id", job.ID, "error", err)
		}
	}

	if err := w.store.UpdateJobStatus(ctx, job.ID, string(jobs.StatusCompleted), nil); err != nil {
		w.logger.Error("failed to mark job completed", "job_id", job.ID, "error", err)
		return
	}
	w.logger.Info("scrape job completed", "job_id", job.ID, "owner", key.String())
}

// extractJobInput mirrors the extract request stored in jobs.input.
type extractJobInput struct {
	LeadID     string `json:"leadId,omitempty"`
	BusinessID string `json:"businessId,omitempty"`
	Domain     string `json:"domain,omitempty"`
}

// ExecuteExtractConfigJob runs the LLM extraction pipeline for one
// queued job.
func (w *ScrapeWorker) ExecuteExtractConfigJob(ctx context.Context, job store.Job) {
	if err := w.store.UpdateJobStatus(ctx, job.ID, string(jobs.StatusRunning), nil); err != nil {
		w.logger.Error("failed to mark job running", "job_id", job.ID, "error", err)
		return
	}

	var input extractJobInput
	if err := json.Unmarshal(job.Input, &input); err != nil {
		w.failJob(ctx, job, errs.Wrap(errs.CodeInvalidArg, err, "malformed job input"))
		return
	}

	key := OwnerRequest{LeadID: input.LeadID, BusinessID: input.BusinessID}.Key()
	cfg, err := w.svcs.Extractor.Extract(ctx, key, input.Domain)
	metrics.RecordLLMCall("extract", err == nil)
	if err != nil {
		w.failJob(ctx, job, err)
		return
	}

	if output, err := json.Marshal(cfg); err == nil {
		if err := w.store.SetJobOutput(ctx, job.ID, output); err != nil {
			w.logger.Error("failed to store job output", "job_id", job.ID, "error", err)
		}
	}

	if err := w.store.UpdateJobStatus(ctx, job.ID, string(jobs.StatusCompleted), nil); err != nil {
		w.logger.Error("failed to mark job completed", "job_id", job.ID, "error", err)
		return
	}
	w.logger.Info("extract job completed", "job_id", job.ID, "owner", key.String())
}

func (w *ScrapeWorker) failJob(ctx context.Context, job store.Job, cause error) {
	msg := string(errs.CodeOf(cause)) + ": " + cause.Error()
	if err := w.store.UpdateJobStatus(ctx, job.ID, string(jobs.StatusFailed), &msg); err != nil {
		w.logger.Error("failed to mark job failed", "job_id", job.ID, "error", err)
	}
	w.logger.Warn("job failed", "job_id", job.ID, "type", job.Type, "error", cause)
}
