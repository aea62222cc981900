package application_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/application"
	"mortgage_deals/internal/config"
	"mortgage_deals/internal/infrastructure/cache"
	"mortgage_deals/internal/infrastructure/persistence"
)

func lazyDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// sqlx.Open does not dial; nothing in these tests touches the database
	db, err := sqlx.Open("pgx", "postgres://localhost:5432/deals")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestNewPipelineWithoutRedis(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cfg := config.Config{Sources: config.Sources{AcquireTimeout: time.Second, Sample: true}}

	pipeline, err := application.NewPipeline(ctx, cfg, lazyDB(t), prometheus.NewRegistry())
	rq.NoError(err)
	defer pipeline.Close(ctx)

	rq.IsType(&persistence.DealRepository{}, pipeline.Stats)
	rq.ElementsMatch([]string{"postgres"}, lo.Keys(pipeline.Checks))
	rq.Equal([]string{"sample"}, pipeline.Sources.Names())
}

func TestNewPipelineInvalidatesCachedStats(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	cfg := config.Config{
		Redis:   config.Redis{Enabled: true, Address: addr, PoolSize: 2, StatsTTL: time.Minute},
		Sources: config.Sources{AcquireTimeout: time.Second},
	}

	pipeline, err := application.NewPipeline(ctx, cfg, lazyDB(t), prometheus.NewRegistry())
	rq.NoError(err)
	defer pipeline.Close(ctx)

	rq.IsType(&cache.StatsCache{}, pipeline.Stats)
	rq.ElementsMatch([]string{"postgres", "redis"}, lo.Keys(pipeline.Checks))

	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct
	t.Cleanup(func() { _ = client.Close() })

	rq.NoError(client.Set(ctx, "mortgage-deals:stats", `{"totalDeals":1}`, time.Minute).Err())

	// a pass with no sources still invalidates, as the one-shot CLI does
	rq.Empty(pipeline.Ingestion.RunIngestion(ctx))

	exists, err := client.Exists(ctx, "mortgage-deals:stats").Result()
	rq.NoError(err)
	rq.Zero(exists)
}
