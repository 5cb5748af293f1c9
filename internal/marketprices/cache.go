package marketprices

import (
	"context"
	"encoding/json"
	"time"

	"farmlink-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// cacheKey is the single named entry the feed layer maintains.
const cacheKey = "market:latest-prices"

// Cache shields the upstream feed: a hit inside the TTL window serves
// without an upstream call, a miss falls through to a fresh fetch.
type Cache interface {
	Get(ctx context.Context) ([]domain.MarketPrice, bool, error)
	Set(ctx context.Context, prices []domain.MarketPrice) error
}

// RedisCache stores the entry as JSON with a server-side TTL, so expiry
// needs no in-process timer.
type RedisCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *RedisCache) Get(ctx context.Context) ([]domain.MarketPrice, bool, error) {
	b, err := c.Rdb.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var prices []domain.MarketPrice
	if err := json.Unmarshal(b, &prices); err != nil {
		// Corrupt entry; treat as a miss so it gets rewritten.
		return nil, false, nil
	}
	return prices, true, nil
}

func (c *RedisCache) Set(ctx context.Context, prices []domain.MarketPrice) error {
	b, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, cacheKey, b, c.TTL).Err()
}
