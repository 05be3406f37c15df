package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// APIKey mirrors an api_keys row.
type APIKey struct {
	ID                 uuid.UUID
	KeyHash            string
	Label              string
	IsAdmin            bool
	RateLimitPerMinute sql.NullInt32
	CreatedAt          time.Time
}

// hashAPIKey hashes a raw API key string using SHA-256 and returns a hex string.
func hashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GetAPIKeyByRawKey looks up an API key by its raw value.
func (s *Store) GetAPIKeyByRawKey(ctx context.Context, rawKey string) (APIKey, error) {
	var key APIKey
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, key_hash, label, is_admin, rate_limit_per_minute, created_at
		FROM api_keys WHERE key_hash = $1`, hashAPIKey(rawKey)).Scan(
		&key.ID, &key.KeyHash, &key.Label, &key.IsAdmin, &key.RateLimitPerMinute, &key.CreatedAt)
	return key, err
}

// EnsureAdminAPIKey ensures that there is an admin API key for the given
// raw key and label. If it already exists, it is returned; otherwise it
// is created.
func (s *Store) EnsureAdminAPIKey(ctx context.Context, rawKey, label string) (APIKey, error) {
	key, err := s.GetAPIKeyByRawKey(ctx, rawKey)
	if err == nil {
		return key, nil
	}
	if err != sql.ErrNoRows {
		return APIKey{}, err
	}

	id := uuid.New()
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO api_keys (id, key_hash, label, is_admin) VALUES ($1, $2, $3, true)`,
		id, hashAPIKey(rawKey), label)
	if err != nil {
		return APIKey{}, err
	}
	return s.GetAPIKeyByRawKey(ctx, rawKey)
}

// CreateRandomAPIKey creates a new random API key (with fd_ prefix) and
// returns the raw key plus the stored record.
func (s *Store) CreateRandomAPIKey(ctx context.Context, label string, isAdmin bool, rateLimitPerMinute *int) (string, APIKey, error) {
	raw := "fd_" + uuid.New().String()

	var rl sql.NullInt32
	if rateLimitPerMinute != nil && *rateLimitPerMinute > 0 {
		rl = sql.NullInt32{Int32: int32(*rateLimitPerMinute), Valid: true}
	}

	id := uuid.New()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO api_keys (id, key_hash, label, is_admin, rate_limit_per_minute)
		VALUES ($1, $2, $3, $4, $5)`,
		id, hashAPIKey(raw), label, isAdmin, rl)
	if err != nil {
		return "", APIKey{}, err
	}

	key, err := s.GetAPIKeyByRawKey(ctx, raw)
	return raw, key, err
}
