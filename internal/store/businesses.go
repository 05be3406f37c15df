package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"frontdesk/internal/errs"
	"frontdesk/internal/model"
)

// CreateBusiness inserts a new business row. A missing id is generated.
func (s *Store) CreateBusiness(ctx context.Context, biz *model.Business) (*model.Business, error) {
	if biz.ID == "" {
		biz.ID = uuid.New().String()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO businesses (id, name, website)
		VALUES ($1, $2, $3)`,
		biz.ID, biz.Name, biz.Website)
	if err != nil {
		return nil, err
	}
	return s.GetBusiness(ctx, biz.ID)
}

// GetBusiness fetches a business by id, returning a NOT_FOUND error when absent.
func (s *Store) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var (
		biz    model.Business
		config sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, website, config, created_at, updated_at
		FROM businesses WHERE id = $1`, id).Scan(
		&biz.ID, &biz.Name, &biz.Website, &config, &biz.CreatedAt, &biz.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.CodeNotFound, "business %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	if config.Valid {
		biz.Config = json.RawMessage(config.String)
	}
	return &biz, nil
}

// ListBusinesses returns up to limit businesses, newest first.
func (s *Store) ListBusinesses(ctx context.Context, limit int32) ([]model.Business, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, website, config, created_at, updated_at
		FROM businesses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Business
	for rows.Next() {
		var (
			biz    model.Business
			config sql.NullString
		)
		if err := rows.Scan(&biz.ID, &biz.Name, &biz.Website, &config,
			&biz.CreatedAt, &biz.UpdatedAt); err != nil {
			return nil, err
		}
		if config.Valid {
			biz.Config = json.RawMessage(config.String)
		}
		out = append(out, biz)
	}
	return out, rows.Err()
}

// UpdateBusiness replaces the descriptive fields of an existing business.
func (s *Store) UpdateBusiness(ctx context.Context, biz *model.Business) (*model.Business, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE businesses SET name = $2, website = $3, updated_at = now() WHERE id = $1`,
		biz.ID, biz.Name, biz.Website)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.New(errs.CodeNotFound, "business %q not found", biz.ID)
	}
	return s.GetBusiness(ctx, biz.ID)
}

// DeleteBusiness removes a business by id.
func (s *Store) DeleteBusiness(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM businesses WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.CodeNotFound, "business %q not found", id)
	}
	return nil
}

// SetBusinessConfig writes the structured receptionist config. A plain
// field update: the row must already exist.
func (s *Store) SetBusinessConfig(ctx context.Context, id string, config json.RawMessage) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE businesses SET config = $2, updated_at = now() WHERE id = $1", id, []byte(config))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.CodeNotFound, "business %q not found", id)
	}
	return nil
}
