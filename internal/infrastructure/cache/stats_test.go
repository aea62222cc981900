package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/infrastructure/cache"
)

type countingLoader struct {
	calls int
	stats entity.Stats
}

func (l *countingLoader) GetStats(context.Context) (entity.Stats, error) {
	l.calls++
	return l.stats, nil
}

func TestStatsCacheReadThrough(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct
	t.Cleanup(func() { _ = client.Close() })

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	loader := &countingLoader{stats: entity.Stats{
		TotalDeals:        2,
		AverageRate:       decimal.RequireFromString("4.5"),
		LowestRate:        decimal.RequireFromString("4"),
		LastSuccessfulRun: &at,
		CountsBySource:    map[string]int{"feed": 2},
	}}

	statsCache := cache.NewStatsCache(client, loader, time.Minute)
	rq.NoError(statsCache.Invalidate(ctx))

	first, err := statsCache.GetStats(ctx)
	rq.NoError(err)

	second, err := statsCache.GetStats(ctx)
	rq.NoError(err)

	rq.Equal(1, loader.calls)
	rq.Equal(first.TotalDeals, second.TotalDeals)
	rq.True(first.AverageRate.Equal(second.AverageRate))
	rq.True(at.Equal(*second.LastSuccessfulRun))
	rq.Equal(map[string]int{"feed": 2}, second.CountsBySource)

	rq.NoError(statsCache.Invalidate(ctx))

	_, err = statsCache.GetStats(ctx)
	rq.NoError(err)
	rq.Equal(2, loader.calls)
}

func TestStatsCacheFallsBackWhenRedisIsDown(t *testing.T) {
	rq := require.New(t)

	client := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	loader := &countingLoader{stats: entity.Stats{TotalDeals: 7}}

	stats, err := cache.NewStatsCache(client, loader, time.Minute).GetStats(context.Background())
	rq.NoError(err)
	rq.Equal(7, stats.TotalDeals)
	rq.Equal(1, loader.calls)
}
