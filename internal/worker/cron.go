package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"mortgage_deals/pkg/logx"
)

var ErrAlreadyRunning = errors.New("trigger is already running")

// CronTrigger runs ingestion passes in-process on a cron schedule. A pass
// that is still running when the next tick fires causes that tick to be
// skipped.
type CronTrigger struct {
	ingester Ingester
	spec     string

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewCronTrigger(ingester Ingester, spec string) *CronTrigger {
	return &CronTrigger{
		ingester: ingester,
		spec:     spec,
	}
}

// Start runs the schedule in the background until Stop or ctx is done.
func (w *CronTrigger) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	if _, err := cron.ParseStandard(w.spec); err != nil {
		return fmt.Errorf("cron.ParseStandard: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil {
			logger(ctx).Error("cron trigger stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *CronTrigger) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *CronTrigger) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Run blocks until ctx is done, then waits for an in-flight pass.
func (w *CronTrigger) Run(ctx context.Context) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger(ctx).Handler(), slog.LevelInfo))

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	if _, err := c.AddFunc(w.spec, func() { w.trigger(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.Start()
	logger(ctx).Info("cron trigger started", slog.String("spec", w.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	logger(ctx).Info("cron trigger stopped")

	return nil
}

func (w *CronTrigger) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	results := w.ingester.RunIngestion(ctx)

	logger(ctx).Info("scheduled ingestion finished", summaryAttrs(results)...)
}
