package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"frontdesk/internal/errs"
)

// Job mirrors a jobs row in the persisted work queue.
type Job struct {
	ID        uuid.UUID
	Type      string
	Status    string
	URL       string
	Input     json.RawMessage
	Output    json.RawMessage
	Error     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateJob inserts a new pending job row.
func (s *Store) CreateJob(ctx context.Context, id uuid.UUID, jobType, url string, input any) (Job, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return Job{}, err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO jobs (id, type, status, url, input) VALUES ($1, $2, 'pending', $3, $4)`,
		id, jobType, url, payload)
	if err != nil {
		return Job{}, err
	}
	return s.GetJob(ctx, id)
}

// GetJob fetches a job by id, returning a NOT_FOUND error when absent.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	var (
		job           Job
		input, output sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, type, status, url, input, output, error, created_at, updated_at
		FROM jobs WHERE id = $1`, id).Scan(
		&job.ID, &job.Type, &job.Status, &job.URL, &input, &output, &job.Error,
		&job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return Job{}, errs.New(errs.CodeNotFound, "job %q not found", id)
	}
	if err != nil {
		return Job{}, err
	}
	if input.Valid {
		job.Input = json.RawMessage(input.String)
	}
	if output.Valid {
		job.Output = json.RawMessage(output.String)
	}
	return job, nil
}

// ListPendingJobs returns up to `limit` jobs that are still pending,
// oldest first.
func (s *Store) ListPendingJobs(ctx context.Context, limit int32) ([]Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, type, status, url, input, output, error, created_at, updated_at
		FROM jobs WHERE status = 'pending' ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job           Job
			input, output sql.NullString
		)
		if err := rows.Scan(&job.ID, &job.Type, &job.Status, &job.URL, &input, &output,
			&job.Error, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		if input.Valid {
			job.Input = json.RawMessage(input.String)
		}
		if output.Valid {
			job.Output = json.RawMessage(output.String)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus updates the status and optional error message for a job.
func (s *Store) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	var sqlErr sql.NullString
	if errMsg != nil {
		sqlErr = sql.NullString{String: *errMsg, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx,
		"UPDATE jobs SET status = $2, error = $3, updated_at = now() WHERE id = $1",
		id, status, sqlErr)
	return err
}

// SetJobOutput stores the job's result payload.
func (s *Store) SetJobOutput(ctx context.Context, id uuid.UUID, output json.RawMessage) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE jobs SET output = $2, updated_at = now() WHERE id = $1", id, []byte(output))
	return err
}

// DeleteExpiredJobsByType deletes finished jobs of the given type older
// than the cutoff, returning how many rows were removed.
func (s *Store) DeleteExpiredJobsByType(ctx context.Context, jobType string, cutoff time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM jobs
		WHERE type = $1 AND created_at < $2 AND status IN ('completed', 'failed')`,
		jobType, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
