package cartsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/cache"

	"github.com/goccy/go-json"
)

// Client fetches carts from the upstream catalog API (GET /carts/{userID}).
// Responses are cached so repeated session starts do not hammer the upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.CacheService
	cacheTTL   time.Duration
}

func NewClient(baseURL string, timeout time.Duration, cacheSvc cache.CacheService, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
	}
}

func (c *Client) FetchCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cacheKey := fmt.Sprintf("cartsource:%d", userID)
	if cached, found := c.cache.Get(cacheKey); found {
		if cart, ok := cached.(*domain.Cart); ok {
			return cart, nil
		}
	}

	url := fmt.Sprintf("%s/carts/%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cart source error (status %d): %s", resp.StatusCode, string(body))
	}

	var cart domain.Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}

	// Upstream totals are not trusted: derive them from the line items so the
	// recomputation invariant holds from the very first snapshot.
	cart.Recompute()

	c.cache.Set(cacheKey, &cart, c.cacheTTL)
	return &cart, nil
}
