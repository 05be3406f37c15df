package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"frontdesk/internal/errs"
	"frontdesk/internal/model"
)

// Store wraps access to the database with hand-written SQL over a
// shared *sql.DB with pooling.
type Store struct {
	DB *sql.DB
}

// New creates a new Store on top of the shared *sql.DB.
func New(database *sql.DB) *Store {
	return &Store{DB: database}
}

// ownerClause returns the WHERE fragment and bind value for an owner
// key. Callers must Validate the key first.
func ownerClause(key model.OwnerKey) (string, any) {
	if key.LeadID != "" {
		return "lead_id = $1", key.LeadID
	}
	return "business_id = $1", key.BusinessID
}

// UpsertRawCrawl stores a canonical crawl result for the given owner.
// The write is lookup-then-write: an existing record keeps its primary
// key and is updated in place, otherwise a new row is inserted. The two
// steps are not atomic; concurrent scrapes of one owner are a caller
// misuse and resolve as last-writer-wins.
func (s *Store) UpsertRawCrawl(ctx context.Context, key model.OwnerKey, res *model.CrawlResult) (*model.RawCrawlRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errs.New(errs.CodeInvalidArg, "nil crawl result")
	}

	pages := res.Pages
	if pages == nil {
		pages = []model.CrawlPage{}
	}
	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return nil, err
	}
	metadata := res.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	clause, ownerID := ownerClause(key)

	var existingID string
	err = s.DB.QueryRowContext(ctx,
		"SELECT id FROM raw_crawl_data WHERE "+clause, ownerID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		id := uuid.New().String()
		var leadID, businessID sql.NullString
		if key.LeadID != "" {
			leadID = sql.NullString{String: key.LeadID, Valid: true}
		}
		if key.BusinessID != "" {
			businessID = sql.NullString{String: key.BusinessID, Valid: true}
		}
		_, err = s.DB.ExecContext(ctx, `
			INSERT INTO raw_crawl_data (id, lead_id, business_id, raw_html, raw_text, pages, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, leadID, businessID, res.RawHTML, res.RawText, pagesJSON, metaJSON)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		_, err = s.DB.ExecContext(ctx, `
			UPDATE raw_crawl_data
			SET raw_html = $2, raw_text = $3, pages = $4, metadata = $5, updated_at = now()
			WHERE id = $1`,
			existingID, res.RawHTML, res.RawText, pagesJSON, metaJSON)
		if err != nil {
			return nil, err
		}
	}

	return s.GetRawCrawl(ctx, key)
}

// GetRawCrawl returns the stored record for the owner, or (nil, nil)
// when no record exists. A missing row is never a fault.
func (s *Store) GetRawCrawl(ctx context.Context, key model.OwnerKey) (*model.RawCrawlRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	clause, ownerID := ownerClause(key)

	var (
		rec              model.RawCrawlRecord
		leadID, business sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, lead_id, business_id, raw_html, raw_text, pages, metadata, created_at, updated_at
		FROM raw_crawl_data WHERE `+clause, ownerID).Scan(
		&rec.ID, &leadID, &business, &rec.RawHTML, &rec.RawText,
		&rec.Pages, &rec.Metadata, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.LeadID = leadID.String
	rec.BusinessID = business.String
	return &rec, nil
}

// RawCrawlExists reports whether a record is stored for the owner.
func (s *Store) RawCrawlExists(ctx context.Context, key model.OwnerKey) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, err
	}

	clause, ownerID := ownerClause(key)

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM raw_crawl_data WHERE "+clause+")", ownerID).Scan(&exists)
	return exists, err
}

// DeleteRawCrawl removes the stored record for the owner, if any.
func (s *Store) DeleteRawCrawl(ctx context.Context, key model.OwnerKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	clause, ownerID := ownerClause(key)
	_, err := s.DB.ExecContext(ctx, "DELETE FROM raw_crawl_data WHERE "+clause, ownerID)
	return err
}
