// Command ingest runs one ingestion pass over every configured source and
// prints the per-source summary, or enqueues the pass for the asynq worker.
//
//	go run ./cmd/ingest
//	go run ./cmd/ingest -enqueue
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"mortgage_deals/internal/application"
	"mortgage_deals/internal/config"
	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/worker"
	"mortgage_deals/pkg/application/connectors"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
	"mortgage_deals/pkg/rest"
)

func main() {
	enqueue := flag.Bool("enqueue", false, "enqueue the pass on the asynq queue instead of running it")
	list := flag.Bool("list", false, "print configured source names and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, cfg, *enqueue, *list); err != nil {
		log.Error("ingest failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, cfg config.Config, enqueue, list bool) error {
	if enqueue {
		trigger := worker.NewAsynqTrigger(nil, application.AsynqRedis(cfg.Redis), cfg.Scheduler.Cron, cfg.Scheduler.Queue)

		id, err := trigger.Enqueue(ctx)
		if err != nil {
			return fmt.Errorf("trigger.Enqueue: %w", err)
		}

		slog.InfoContext(ctx, "ingestion enqueued", slog.String("task-id", id))

		return nil
	}

	if list {
		registry, err := application.NewRegistry(cfg)
		if err != nil {
			return fmt.Errorf("application.NewRegistry: %w", err)
		}

		return printJSON(registry.Names())
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	db := pg.Client(ctx)
	defer pg.Close(ctx)

	pipeline, err := application.NewPipeline(ctx, cfg, db, prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("application.NewPipeline: %w", err)
	}
	defer pipeline.Close(ctx)

	results := pipeline.Ingestion.RunIngestion(ctx)

	return printJSON(lo.Map(results, func(r entity.SourceResult, _ int) rest.IngestionResult {
		return rest.IngestionResult{
			Source: r.Source,
			Count:  r.Count,
			Status: string(r.Status),
			Error:  r.Error,
		}
	}))
}

func printJSON(v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}

	return nil
}
