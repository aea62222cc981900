// Package cache keeps the aggregate stats in Redis between ingestion passes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
)

const statsKey = "mortgage-deals:stats"

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type StatsLoader interface {
	GetStats(ctx context.Context) (entity.Stats, error)
}

// StatsCache is a read-through cache in front of the repository. Redis
// failures are logged and the loader answers instead.
type StatsCache struct {
	client *redis.Client
	loader StatsLoader
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, loader StatsLoader, ttl time.Duration) *StatsCache {
	return &StatsCache{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

type cachedStats struct {
	TotalDeals        int             `json:"totalDeals"`
	AverageRate       decimal.Decimal `json:"averageRate"`
	LowestRate        decimal.Decimal `json:"lowestRate"`
	LastSuccessfulRun *time.Time      `json:"lastSuccessfulRun"`
	CountsBySource    map[string]int  `json:"countsBySource"`
}

func (c *StatsCache) GetStats(ctx context.Context) (entity.Stats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()

	switch {
	case err == nil:
		var cached cachedStats

		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			return entity.Stats(cached), nil
		}

		logger(ctx).Warn("cached stats are unreadable", logx.Error(decodeErr))
	case !errors.Is(err, redis.Nil):
		logger(ctx).Warn("redis.Get", logx.Error(err))
	}

	stats, err := c.loader.GetStats(ctx)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("loader.GetStats: %w", err)
	}

	payload, err := json.Marshal(cachedStats(stats))
	if err != nil {
		return stats, nil
	}

	if err := c.client.Set(ctx, statsKey, payload, c.ttl).Err(); err != nil {
		logger(ctx).Warn("redis.Set", logx.Error(err))
	}

	return stats, nil
}

// Invalidate drops the cached value so the next read reflects a new pass.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}
	return nil
}
