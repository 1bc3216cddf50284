package repository

import (
	"context"
	"fmt"
	"time"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/logger"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
)

type memorySessionRepository struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewMemorySessionRepository returns a session store for single-instance
// deployments without a database. Sessions expire after ttl of inactivity.
// Snapshots are stored serialized so the round-trip matches the durable store.
func NewMemorySessionRepository(ttl time.Duration) domain.SessionRepository {
	return &memorySessionRepository{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (r *memorySessionRepository) Get(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	raw, found := r.store.Get(key)
	if !found {
		return domain.NewCheckoutSession(), nil
	}

	data, ok := raw.([]byte)
	if !ok {
		return domain.NewCheckoutSession(), nil
	}

	session := domain.NewCheckoutSession()
	if err := json.Unmarshal(data, session); err != nil {
		logger.Warn().Err(err).Str("session_key", key).Msg("Corrupt session snapshot, starting fresh")
		return domain.NewCheckoutSession(), nil
	}
	return session, nil
}

func (r *memorySessionRepository) Save(ctx context.Context, key string, session *domain.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", key, err)
	}
	r.store.Set(key, data, r.ttl)
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, key string) error {
	r.store.Delete(key)
	return nil
}
