package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no matching integration row exists.
var ErrNotFound = errors.New("integration not found")

// Repository provides access to the integrations table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetConnected returns the most recently updated connected messaging
// integration for a user, or ErrNotFound.
func (r *Repository) GetConnected(ctx context.Context, userID int64) (*Integration, error) {
	var i Integration
	var config []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, platform, COALESCE(access_token, ''), config, status, created_at, updated_at
		FROM integrations
		WHERE user_id = $1 AND platform IN ($2, $3) AND status = $4
		ORDER BY updated_at DESC
		LIMIT 1`,
		userID, PlatformOfficial, PlatformEvolution, StatusConnected,
	).Scan(&i.ID, &i.UserID, &i.Platform, &i.AccessToken, &config, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get integration: %w", err)
	}

	i.Config = map[string]any{}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &i.Config); err != nil {
			return nil, fmt.Errorf("unmarshal integration config: %w", err)
		}
	}
	return &i, nil
}

// Save upserts an integration keyed by (user_id, platform). The caller
// is responsible for encrypting AccessToken before saving.
func (r *Repository) Save(ctx context.Context, i *Integration) error {
	config, err := json.Marshal(i.Config)
	if err != nil {
		return fmt.Errorf("marshal integration config: %w", err)
	}

	now := time.Now().UTC()
	err = r.db.QueryRow(ctx, `
		INSERT INTO integrations (user_id, platform, access_token, config, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			config = EXCLUDED.config,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		i.UserID, i.Platform, i.AccessToken, config, i.Status, now,
	).Scan(&i.ID, &i.CreatedAt)
	if err != nil {
		return fmt.Errorf("save integration: %w", err)
	}
	i.UpdatedAt = now
	return nil
}

// SetStatus flips the connection status of an integration.
func (r *Repository) SetStatus(ctx context.Context, userID int64, platform, status string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE integrations SET status = $3, updated_at = $4
		WHERE user_id = $1 AND platform = $2`,
		userID, platform, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set integration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
