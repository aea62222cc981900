// Package search answers deal queries with the database -> live -> sample
// fallback cascade and attaches derived metrics to whatever survives.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/filter"
	"mortgage_deals/internal/domain/service/finance"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500

	defaultLiveTTL = 10 * time.Minute
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Tier names the stage of the cascade that produced a result.
type Tier string

const (
	TierDatabase Tier = "database"
	TierLive     Tier = "live"
	TierStatic   Tier = "static"
)

type Repository interface {
	QueryDeals(ctx context.Context, filters filter.Set, limit int) ([]entity.Deal, error)
}

type Source interface {
	Name() string
	Acquire(ctx context.Context, params value.AcquireParams) ([]value.Candidate, error)
}

type Normalizer interface {
	NormalizeAll(candidates []value.Candidate, source string) []entity.Deal
}

// Recorder receives the tier that answered and repository failures.
type Recorder interface {
	ObserveTier(tier Tier)
	ObserveQueryError()
}

type Query struct {
	Filters   filter.Set
	Limit     int
	Baseline  *decimal.Decimal
	Principal *decimal.Decimal
	Years     *int
}

type Result struct {
	Deals []entity.EnrichedDeal
	Tier  Tier
}

type Engine struct {
	repo       Repository
	live       []Source
	normalizer Normalizer
	defaults   finance.Params
	params     value.AcquireParams
	liveCache  *cache.Cache
	sample     []entity.Deal
	recorder   Recorder
	liveBudget time.Duration
}

func NewEngine(repo Repository, normalizer Normalizer, defaults finance.Params, live ...Source) *Engine {
	return &Engine{
		repo:       repo,
		live:       live,
		normalizer: normalizer,
		defaults:   defaults,
		liveCache:  cache.New(defaultLiveTTL, 2*defaultLiveTTL),
		sample:     normalizer.NormalizeAll(sampleCandidates, SampleSource),
	}
}

// WithLiveCacheTTL keeps live acquisitions for ttl; zero disables caching.
func (e *Engine) WithLiveCacheTTL(ttl time.Duration) *Engine {
	if ttl <= 0 {
		e.liveCache = nil
		return e
	}

	e.liveCache = cache.New(ttl, 2*ttl)

	return e
}

// WithLiveBudget bounds the whole live tier, across all sources, to d.
// Zero leaves only the per-source acquisition timeout.
func (e *Engine) WithLiveBudget(d time.Duration) *Engine {
	e.liveBudget = d
	return e
}

func (e *Engine) WithAcquireParams(params value.AcquireParams) *Engine {
	e.params = params
	return e
}

func (e *Engine) WithRecorder(r Recorder) *Engine {
	e.recorder = r
	return e
}

// NormalizeLimit maps missing or out-of-range limits to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// Search never fails: repository and source errors degrade to the next tier.
func (e *Engine) Search(ctx context.Context, q Query) Result {
	limit := NormalizeLimit(q.Limit)
	params := e.financeParams(q)

	deals, tier := e.cascade(ctx, q.Filters, limit)

	if e.recorder != nil {
		e.recorder.ObserveTier(tier)
	}

	return Result{
		Deals: finance.Enrich(deals, params),
		Tier:  tier,
	}
}

func (e *Engine) cascade(ctx context.Context, filters filter.Set, limit int) ([]entity.Deal, Tier) {
	deals, err := e.repo.QueryDeals(ctx, filters, limit)

	switch {
	case err != nil:
		var qErr *domain.QueryError
		if !errors.As(err, &qErr) {
			err = domain.NewQueryError(err)
		}

		logger(ctx).Error("repository query failed, falling back", logx.Error(err))

		if e.recorder != nil {
			e.recorder.ObserveQueryError()
		}
	case len(deals) > 0:
		return deals, TierDatabase
	default:
		logger(ctx).Info("repository returned no deals, falling back")
	}

	match := filters.Composite().Match

	if deals, ok := e.liveTier(ctx, match, limit); ok {
		return deals, TierLive
	}

	logger(ctx).Warn("serving sample deals")

	return applyFilter(e.sample, match, limit), TierStatic
}

func (e *Engine) liveTier(ctx context.Context, match func(entity.Deal) bool, limit int) ([]entity.Deal, bool) {
	if e.liveBudget > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.liveBudget)
		defer cancel()
	}

	for _, src := range e.live {
		deals, err := e.acquireLive(ctx, src)
		if err != nil {
			logger(ctx).Warn("live fallback source failed",
				slog.String(logx.FieldSource, src.Name()),
				logx.Error(err),
			)

			continue
		}

		if deals = applyFilter(deals, match, limit); len(deals) > 0 {
			return deals, true
		}
	}

	return nil, false
}

func (e *Engine) acquireLive(ctx context.Context, src Source) ([]entity.Deal, error) {
	name := src.Name()

	if e.liveCache != nil {
		if cached, ok := e.liveCache.Get(name); ok {
			return cached.([]entity.Deal), nil //nolint:forcetypeassert
		}
	}

	candidates, err := src.Acquire(ctx, e.params)
	if err != nil {
		return nil, fmt.Errorf("source.Acquire: %w", err)
	}

	deals := e.normalizer.NormalizeAll(candidates, name)

	if e.liveCache != nil && len(deals) > 0 {
		e.liveCache.Set(name, deals, cache.DefaultExpiration)
	}

	return deals, nil
}

func (e *Engine) financeParams(q Query) finance.Params {
	params := finance.Params{
		Principal: e.defaults.Principal,
		Years:     e.defaults.Years,
		Baseline:  q.Baseline,
	}

	if q.Principal != nil {
		params.Principal = *q.Principal
	}

	if q.Years != nil {
		params.Years = *q.Years
	}

	return params
}

// applyFilter returns matching deals ordered by ascending rate, capped at limit.
func applyFilter(deals []entity.Deal, match func(entity.Deal) bool, limit int) []entity.Deal {
	out := lo.Filter(deals, func(d entity.Deal, _ int) bool { return match(d) })

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InterestRate.LessThan(out[j].InterestRate)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}
