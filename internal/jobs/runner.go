package jobs

import (
	"context"
	"log/slog"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/store"
)

// ScrapeSiteExecutor executes a single site scrape job.
type ScrapeSiteExecutor interface {
	ExecuteScrapeSiteJob(ctx context.Context, job store.Job)
}

// ExtractConfigExecutor executes a single config extraction job.
type ExtractConfigExecutor interface {
	ExecuteExtractConfigJob(ctx context.Context, job store.Job)
}

// Executors groups the concrete executors for each job type.
type Executors struct {
	ScrapeSite    ScrapeSiteExecutor
	ExtractConfig ExtractConfigExecutor
}

// Runner polls the jobs table and dispatches work to job-type-specific
// executors. It encapsulates concurrency limits, polling intervals, and
// periodic retention cleanup.
type Runner struct {
	cfg       *config.Config
	store     *store.Store
	executors Executors
	logger    *slog.Logger
}

// NewRunner constructs a Runner. Jobs whose type has no configured
// executor are marked failed with an UNKNOWN_JOB_TYPE error.
func NewRunner(cfg *config.Config, st *store.Store, execs Executors, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:       cfg,
		store:     st,
		executors: execs,
		logger:    logger,
	}
}

// Start launches the worker loop in the current goroutine. Callers
// typically run this in its own goroutine and keep the process alive.
func (r *Runner) Start(ctx context.Context) {
	pollInterval := time.Duration(r.cfg.Worker.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	maxJobs := r.cfg.Worker.MaxConcurrentJobs
	if maxJobs <= 0 {
		maxJobs = 4
	}

	sem := make(chan struct{}, maxJobs)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastCleanup time.Time
	cleanupInterval := time.Duration(r.cfg.Retention.CleanupIntervalMinutes) * time.Minute
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if r.cfg.Retention.Enabled {
			now := time.Now().UTC()
			if lastCleanup.IsZero() || now.Sub(lastCleanup) >= cleanupInterval {
				stats := CleanupExpiredData(ctx, r.cfg, r.store)
				if len(stats.JobsDeleted) > 0 {
					r.logger.Info("retention cleanup ran", "jobs_deleted", stats.JobsDeleted)
				}
				lastCleanup = now
			}
		}

		capacity := maxJobs - len(sem)
		if capacity <= 0 {
			continue
		}

		jobs, err := r.store.ListPendingJobs(ctx, int32(capacity))
		if err != nil {
			r.logger.Error("failed to list pending jobs", "error", err)
			continue
		}

		for _, job := range jobs {
			job := job
			sem <- struct{}{}
			go func() {
				defer func() { <-sem }()
				r.dispatchJob(ctx, job)
			}()
		}
	}
}

func (r *Runner) dispatchJob(ctx context.Context, job store.Job) {
	switch job.Type {
	case TypeScrapeSite:
		if r.executors.ScrapeSite != nil {
			r.executors.ScrapeSite.ExecuteScrapeSiteJob(ctx, job)
			return
		}
	case TypeExtractConfig:
		if r.executors.ExtractConfig != nil {
			r.executors.ExtractConfig.ExecuteExtractConfigJob(ctx, job)
			return
		}
	}

	msg := "UNKNOWN_JOB_TYPE: " + job.Type
	_ = r.store.UpdateJobStatus(context.Background(), job.ID, string(StatusFailed), &msg)
}
