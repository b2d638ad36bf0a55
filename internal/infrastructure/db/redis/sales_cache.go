package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mipipizza/order-system/internal/core/domain"
)

const (
	salesKey = "sales:summary"
	salesTTL = 30 * time.Second
)

// SalesCache caches the sales report for a short window. The lifecycle
// engine invalidates it whenever an order is archived.
type SalesCache struct {
	client *redis.Client
}

func NewSalesCache(client *redis.Client) *SalesCache {
	return &SalesCache{client: client}
}

// Get returns the cached report, or nil on a cache miss. A nil client means
// the cache was never configured; every call is then a miss.
func (c *SalesCache) Get(ctx context.Context) (*domain.SalesReport, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, salesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sales cache get: %w", err)
	}

	var report domain.SalesReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("sales cache decode: %w", err)
	}
	return &report, nil
}

func (c *SalesCache) Set(ctx context.Context, report *domain.SalesReport) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("sales cache encode: %w", err)
	}
	return c.client.Set(ctx, salesKey, raw, salesTTL).Err()
}

func (c *SalesCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, salesKey).Err()
}
