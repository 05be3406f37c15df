package jobs

import (
	"context"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/metrics"
	"frontdesk/internal/store"
)

// RetentionStats captures the number of records deleted by TTL cleanup.
type RetentionStats struct {
	JobsDeleted map[string]int64 `json:"jobsDeleted"`
}

// CleanupExpiredData deletes old finished jobs based on retention
// settings so that the database does not grow without bound.
func CleanupExpiredData(ctx context.Context, cfg *config.Config, st *store.Store) RetentionStats {
	now := time.Now().UTC()
	stats := RetentionStats{JobsDeleted: make(map[string]int64)}

	jobTTL := cfg.Retention.Jobs

	applyJobTTL := func(jobType string, days int) {
		if days <= 0 {
			return
		}
		cutoff := now.AddDate(0, 0, -days)
		if n, err := st.DeleteExpiredJobsByType(ctx, jobType, cutoff); err == nil && n > 0 {
			stats.JobsDeleted[jobType] += n
			metrics.RecordRetentionJobs(jobType, n)
		}
	}

	effectiveDays := func(specific int) int {
		if specific > 0 {
			return specific
		}
		return jobTTL.DefaultDays
	}

	applyJobTTL(TypeScrapeSite, effectiveDays(jobTTL.ScrapeDays))
	applyJobTTL(TypeExtractConfig, effectiveDays(jobTTL.ExtractDays))

	return stats
}
