package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"frontdesk/internal/errs"
	"frontdesk/internal/model"
)

// CreateLead inserts a new lead row. A missing id is generated.
func (s *Store) CreateLead(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO leads (id, name, email, phone, instagram, website, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Instagram, lead.Website, lead.Status)
	if err != nil {
		return nil, err
	}
	return s.GetLead(ctx, lead.ID)
}

func scanLead(row *sql.Row) (*model.Lead, error) {
	var (
		lead    model.Lead
		scraped sql.NullString
	)
	err := row.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Instagram,
		&lead.Website, &lead.Status, &scraped, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if scraped.Valid {
		lead.ScrapedData = json.RawMessage(scraped.String)
	}
	return &lead, nil
}

// GetLead fetches a lead by id, returning a NOT_FOUND error when absent.
func (s *Store) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, phone, instagram, website, status, scraped_data, created_at, updated_at
		FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.CodeNotFound, "lead %q not found", id)
	}
	return lead, err
}

// ListLeads returns up to limit leads, newest first.
func (s *Store) ListLeads(ctx context.Context, limit int32) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, instagram, website, status, scraped_data, created_at, updated_at
		FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var (
			lead    model.Lead
			scraped sql.NullString
		)
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Instagram,
			&lead.Website, &lead.Status, &scraped, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, err
		}
		if scraped.Valid {
			lead.ScrapedData = json.RawMessage(scraped.String)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateLead replaces the descriptive fields of an existing lead.
func (s *Store) UpdateLead(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, instagram = $5, website = $6, status = $7, updated_at = now()
		WHERE id = $1`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Instagram, lead.Website, lead.Status)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.New(errs.CodeNotFound, "lead %q not found", lead.ID)
	}
	return s.GetLead(ctx, lead.ID)
}

// DeleteLead removes a lead by id.
func (s *Store) DeleteLead(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.CodeNotFound, "lead %q not found", id)
	}
	return nil
}

// SetLeadScrapedData writes the extracted config into the lead's
// scraped-data field. A plain field update: the row must already exist.
func (s *Store) SetLeadScrapedData(ctx context.Context, id string, data json.RawMessage) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE leads SET scraped_data = $2, updated_at = now() WHERE id = $1", id, []byte(data))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.CodeNotFound, "lead %q not found", id)
	}
	return nil
}
