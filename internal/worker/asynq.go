package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"mortgage_deals/pkg/application/modules"
)

const TaskTypeIngestionRun = "ingestion:run"

func NewIngestionTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIngestionRun, nil, asynq.MaxRetry(0))
}

// AsynqTrigger schedules ingestion through Redis so that only one replica
// runs each pass. The scheduler enqueues, modules.AsynqServer consumes.
type AsynqTrigger struct {
	ingester Ingester
	redis    asynq.RedisClientOpt
	spec     string
	queue    string
}

func NewAsynqTrigger(ingester Ingester, redis asynq.RedisClientOpt, spec, queue string) *AsynqTrigger {
	return &AsynqTrigger{
		ingester: ingester,
		redis:    redis,
		spec:     spec,
		queue:    queue,
	}
}

func (t *AsynqTrigger) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskTypeIngestionRun,
		Handle:  t.handle,
	}
}

// handle never fails the task: per-source failures are already recorded
// in the audit log and a retry would duplicate the pass.
func (t *AsynqTrigger) handle(ctx context.Context, task *asynq.Task) error {
	results := t.ingester.RunIngestion(ctx)

	logger(ctx).Info("queued ingestion finished",
		append(summaryAttrs(results), slog.String("task", task.Type()))...,
	)

	return nil
}

// RunScheduler registers the periodic task and blocks until ctx is done.
func (t *AsynqTrigger) RunScheduler(ctx context.Context) error {
	scheduler := asynq.NewScheduler(t.redis, &asynq.SchedulerOpts{}) //nolint:exhaustruct

	entryID, err := scheduler.Register(t.spec, NewIngestionTask(), asynq.Queue(t.queue))
	if err != nil {
		return fmt.Errorf("scheduler.Register: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}

	logger(ctx).Info("asynq scheduler started",
		slog.String("entry-id", entryID),
		slog.String("spec", t.spec),
		slog.String("queue", t.queue),
	)

	<-ctx.Done()

	scheduler.Shutdown()
	logger(ctx).Info("asynq scheduler stopped")

	return nil
}

// Enqueue requests a pass outside the schedule.
func (t *AsynqTrigger) Enqueue(ctx context.Context) (string, error) {
	client := asynq.NewClient(t.redis)
	defer client.Close()

	info, err := client.EnqueueContext(ctx, NewIngestionTask(), asynq.Queue(t.queue))
	if err != nil {
		return "", fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return info.ID, nil
}
