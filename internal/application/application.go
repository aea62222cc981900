// Package application wires configuration into running modules.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"mortgage_deals/internal/config"
	"mortgage_deals/internal/domain/service/finance"
	"mortgage_deals/internal/domain/service/ingestion"
	"mortgage_deals/internal/domain/service/normalizer"
	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/internal/infrastructure/cache"
	"mortgage_deals/internal/infrastructure/metrics"
	"mortgage_deals/internal/infrastructure/persistence"
	"mortgage_deals/internal/infrastructure/source"
	"mortgage_deals/internal/server"
	"mortgage_deals/internal/worker"
	"mortgage_deals/pkg/application/connectors"
	"mortgage_deals/pkg/application/modules"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/probe"
)

const readHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Pipeline is the set of collaborators shared by the server and the CLI.
type Pipeline struct {
	Deals     *persistence.DealRepository
	Runs      *persistence.IngestionRunRepository
	Sources   *source.Registry
	Ingestion *ingestion.Service
	Recorder  *metrics.Recorder
	// Stats is the Redis read-through cache when Redis is enabled, the
	// deal repository otherwise.
	Stats server.StatsProvider
	// Checks gate readiness, keyed by dependency name.
	Checks map[string]probe.Check

	redis *connectors.Redis
}

// NewRegistry builds the configured source adapters.
func NewRegistry(cfg config.Config) (*source.Registry, error) {
	feedClient := source.NewFeedClient(cfg.Sources.FeedToken, cfg.HTTP.LogFieldMaxLen, cfg.Sources.AcquireTimeout)

	registry, err := source.NewRegistry(cfg.Sources, feedClient, search.SampleCandidates())
	if err != nil {
		return nil, fmt.Errorf("source.NewRegistry: %w", err)
	}

	return registry, nil
}

// NewPipeline builds repositories, adapters and the orchestrator on db.
// With Redis enabled every pass, scheduled or one-shot, invalidates the
// cached stats. Close releases the Redis connection.
func NewPipeline(
	ctx context.Context,
	cfg config.Config,
	db *sqlx.DB,
	registerer prometheus.Registerer,
) (*Pipeline, error) {
	registry, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Deals:    persistence.NewDealRepository(db),
		Runs:     persistence.NewIngestionRunRepository(db),
		Sources:  registry,
		Recorder: metrics.NewRecorder(registerer),
		Checks:   map[string]probe.Check{},
	}

	p.Stats = p.Deals

	if db != nil {
		p.Checks["postgres"] = db.PingContext
	}

	sources := lo.Map(registry.Adapters(), func(a source.Adapter, _ int) ingestion.Source { return a })

	p.Ingestion = ingestion.NewService(p.Deals, p.Runs, normalizer.New(), sources...).
		WithAcquireParams(acquireParams(cfg)).
		WithRecorder(p.Recorder)

	if cfg.Redis.Enabled {
		p.redis = redisConnector(cfg.Redis)

		client := p.redis.Client(ctx)
		p.Checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err() //nolint:wrapcheck
		}

		statsCache := cache.NewStatsCache(client, p.Deals, cfg.Redis.StatsTTL)
		p.Ingestion.WithStatsInvalidator(statsCache)
		p.Stats = statsCache
	}

	return p, nil
}

func (p *Pipeline) Close(ctx context.Context) {
	if p.redis != nil {
		p.redis.Close(ctx)
	}
}

func acquireParams(cfg config.Config) value.AcquireParams {
	return value.AcquireParams{Timeout: cfg.Sources.AcquireTimeout}
}

func redisConnector(cfg config.Redis) *connectors.Redis {
	return &connectors.Redis{
		Username:           cfg.Username,
		Password:           cfg.Password,
		Address:            cfg.Address,
		DatabaseNumber:     cfg.DatabaseNumber,
		PoolSize:           cfg.PoolSize,
		MinIdleConnections: cfg.MinIdleConnections,
		MaxIdleConnections: cfg.MaxIdleConnections,
	}
}

// AsynqRedis maps the redis config onto asynq connection options.
func AsynqRedis(cfg config.Redis) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DatabaseNumber,
	}
}

// Run starts the API, probe and metrics servers plus the configured
// scheduler, and blocks until ctx is done or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	pipeline, err := NewPipeline(ctx, cfg, db, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("application.NewPipeline: %w", err)
	}
	defer pipeline.Close(ctx)

	logger(ctx).Info("sources configured", slog.Any("sources", pipeline.Sources.Names()))

	// The sample source is already the engine's last tier.
	live := lo.FilterMap(pipeline.Sources.Adapters(), func(a source.Adapter, _ int) (search.Source, bool) {
		return a, a.Name() != search.SampleSource
	})

	engine := search.NewEngine(pipeline.Deals, normalizer.New(), finance.Params{
		Principal: cfg.Finance.Principal,
		Years:     cfg.Finance.TermYears,
	}, live...).
		WithLiveCacheTTL(cfg.Sources.LiveCacheTTL).
		WithLiveBudget(cfg.Sources.LiveBudget).
		WithAcquireParams(acquireParams(cfg)).
		WithRecorder(pipeline.Recorder)

	srv := server.NewServer(
		server.NewDealServer(engine),
		server.NewIngestionServer(pipeline.Ingestion, pipeline.Runs),
		server.NewStatsServer(pipeline.Stats),
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           server.NewRouter(srv, cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeAddress,
		Checks:        pipeline.Checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(ctx, g)

	switch cfg.Scheduler.Mode {
	case config.SchedulerCron:
		trigger := worker.NewCronTrigger(pipeline.Ingestion, cfg.Scheduler.Cron)

		if err := trigger.Start(ctx); err != nil {
			return fmt.Errorf("trigger.Start: %w", err)
		}
		// waits for an in-flight pass once the servers have stopped
		defer trigger.Stop()
	case config.SchedulerAsynq:
		trigger := worker.NewAsynqTrigger(pipeline.Ingestion, AsynqRedis(cfg.Redis), cfg.Scheduler.Cron, cfg.Scheduler.Queue)

		g.Go(func() error {
			return trigger.RunScheduler(ctx)
		})

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
			Concurrency:   cfg.Scheduler.Concurrency,
		}.Run(ctx, g, modules.AsynqQueues{cfg.Scheduler.Queue: 1}, trigger.Handler())
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}
