package repository

import (
	"context"
	"errors"
	"fmt"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresSessionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresSessionRepository returns a durable session store backed by one
// JSONB row per session key.
func NewPostgresSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &postgresSessionRepository{db: db}
}

// EnsureSchema creates the session table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS checkout_sessions (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure checkout_sessions table: %w", err)
	}
	return nil
}

func (r *postgresSessionRepository) Get(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM checkout_sessions WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewCheckoutSession(), nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", key, err)
	}

	session := domain.NewCheckoutSession()
	if err := json.Unmarshal(data, session); err != nil {
		// Corrupt snapshot: recover with a fresh session instead of failing
		// the whole checkout flow.
		logger.Warn().Err(err).Str("session_key", key).Msg("Corrupt session snapshot, starting fresh")
		return domain.NewCheckoutSession(), nil
	}
	return session, nil
}

func (r *postgresSessionRepository) Save(ctx context.Context, key string, session *domain.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", key, err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO checkout_sessions (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		key, data)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", key, err)
	}
	return nil
}

func (r *postgresSessionRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM checkout_sessions WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", key, err)
	}
	return nil
}
