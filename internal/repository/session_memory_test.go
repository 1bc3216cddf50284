package repository

import (
	"context"
	"testing"
	"time"

	"checkout-backend/internal/domain"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()

	session := domain.NewCheckoutSession()
	session.Cart = &domain.Cart{
		ID:     1,
		UserID: 1,
		Products: []domain.LineItem{
			{ID: 10, Title: "Notebook", Price: 10, Quantity: 2, DiscountPercentage: 10},
		},
	}
	session.Cart.Recompute()
	session.PaymentMethod = domain.PaymentMethodUPI
	session.OrderStatus = domain.OrderStatusPending
	session.CompleteStep(2)

	require.NoError(t, repo.Save(ctx, "sess-1", session))

	restored, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session, restored)
}

func TestMemorySessionRepositoryMissingKey(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)

	session, err := repo.Get(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.Equal(t, domain.NewCheckoutSession(), session)
}

func TestMemorySessionRepositoryCorruptSnapshot(t *testing.T) {
	repo := &memorySessionRepository{store: gocache.New(time.Minute, time.Minute), ttl: time.Minute}
	repo.store.Set("sess-1", []byte(`{"cartData": not-json`), time.Minute)

	session, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewCheckoutSession(), session)
}

func TestMemorySessionRepositoryDelete(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()

	session := domain.NewCheckoutSession()
	session.PaymentCompleted = true
	require.NoError(t, repo.Save(ctx, "sess-1", session))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	restored, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewCheckoutSession(), restored)
}
