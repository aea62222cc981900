// Package ingestion runs every configured source once and persists what
// they produce, one audit row per source.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
)

const auditWriteTimeout = 10 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Source interface {
	Name() string
	Acquire(ctx context.Context, params value.AcquireParams) ([]value.Candidate, error)
}

type DealRepository interface {
	UpsertDeal(ctx context.Context, deal entity.Deal) error
}

type RunRepository interface {
	RecordIngestionRun(ctx context.Context, run entity.IngestionRun) error
}

type Normalizer interface {
	NormalizeAll(candidates []value.Candidate, source string) []entity.Deal
}

// Recorder receives per-source outcomes, e.g. for Prometheus.
type Recorder interface {
	ObserveSource(source string, status entity.RunStatus, persisted, discarded, failed int, took time.Duration)
}

type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	sources    []Source
	deals      DealRepository
	runs       RunRepository
	normalizer Normalizer
	params     value.AcquireParams
	recorder   Recorder
	stats      StatsInvalidator
}

func NewService(
	deals DealRepository,
	runs RunRepository,
	normalizer Normalizer,
	sources ...Source,
) *Service {
	return &Service{
		sources:    sources,
		deals:      deals,
		runs:       runs,
		normalizer: normalizer,
	}
}

func (s *Service) WithAcquireParams(params value.AcquireParams) *Service {
	s.params = params
	return s
}

func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) WithStatsInvalidator(i StatsInvalidator) *Service {
	s.stats = i
	return s
}

func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

// RunIngestion runs all sources concurrently. A failing source never affects
// the others; the result has one entry per source in configuration order.
func (s *Service) RunIngestion(ctx context.Context) []entity.SourceResult {
	passID := xid.New().String()
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldPassID, passID)))

	logger(ctx).Info("ingestion pass started", slog.Int("sources", len(s.sources)))

	results := make([]entity.SourceResult, len(s.sources))

	var g errgroup.Group

	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.runSource(ctx, passID, src)
			return nil
		})
	}

	_ = g.Wait()

	if s.stats != nil {
		if err := s.stats.Invalidate(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Warn("stats.Invalidate", logx.Error(err))
		}
	}

	total := lo.SumBy(results, func(r entity.SourceResult) int { return r.Count })

	logger(ctx).Info("ingestion pass finished", slog.Int(logx.FieldPersisted, total))

	return results
}

func (s *Service) runSource(ctx context.Context, passID string, src Source) entity.SourceResult {
	name := src.Name()
	start := time.Now()
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldSource, name)))

	result := entity.SourceResult{Source: name, Status: entity.RunStatusSuccess}

	var discarded, failed int

	candidates, err := s.acquire(ctx, src)
	if err != nil {
		logger(ctx).Error("source acquisition failed", logx.Error(err))

		result.Status = entity.RunStatusError
		result.Error = err.Error()
	} else {
		deals := s.normalizer.NormalizeAll(candidates, name)
		discarded = len(candidates) - len(deals)

		result.Count, failed = s.persist(ctx, deals)

		if failed > 0 {
			result.Error = fmt.Sprintf("%d of %d deals failed to persist", failed, len(deals))
		}

		logger(ctx).Info("source ingested",
			slog.Int("candidates", len(candidates)),
			slog.Int(logx.FieldDiscarded, discarded),
			slog.Int(logx.FieldPersisted, result.Count),
			slog.Int(logx.FieldFailed, failed),
		)
	}

	s.record(ctx, passID, result)

	if s.recorder != nil {
		s.recorder.ObserveSource(name, result.Status, result.Count, discarded, failed, time.Since(start))
	}

	return result
}

func (s *Service) acquire(ctx context.Context, src Source) (candidates []value.Candidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = domain.NewSourceAcquisitionError(src.Name(), fmt.Errorf("panic: %v", rec))
		}
	}()

	candidates, err = src.Acquire(ctx, s.params)
	if err != nil {
		return nil, fmt.Errorf("source.Acquire: %w", err)
	}

	return candidates, nil
}

// persist writes deals one at a time; a failed record is skipped.
func (s *Service) persist(ctx context.Context, deals []entity.Deal) (persisted, failed int) {
	for _, deal := range deals {
		if err := s.deals.UpsertDeal(ctx, deal); err != nil {
			logger(ctx).Warn("deal upsert failed", slog.String(logx.FieldDeal, deal.Key()), logx.Error(err))
			failed++

			continue
		}

		persisted++
	}

	return persisted, failed
}

// record always writes the audit row, even when ctx is already cancelled.
func (s *Service) record(ctx context.Context, passID string, result entity.SourceResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	run := entity.IngestionRun{
		PassID:       passID,
		Source:       result.Source,
		Status:       result.Status,
		DealsScraped: result.Count,
		CreatedAt:    time.Now().UTC(),
	}

	if result.Error != "" {
		msg := result.Error
		run.ErrorMessage = &msg
	}

	if err := s.runs.RecordIngestionRun(ctx, run); err != nil {
		logger(ctx).Error("ingestion run not recorded", logx.Error(err))
	}
}
