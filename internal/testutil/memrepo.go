// Package testutil provides in-memory collaborators for pipeline tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/filter"
)

var ErrInjected = errors.New("injected failure")

// MemRepository mimics the Postgres repositories, including the
// (lender, product, rate) upsert key.
type MemRepository struct {
	mu    sync.Mutex
	deals map[string]entity.Deal
	order []string
	runs  []entity.IngestionRun

	// FailUpsert, when set, fails upserts for which it returns true.
	FailUpsert func(entity.Deal) bool
	// FailQuery makes QueryDeals return ErrInjected.
	FailQuery bool
}

func NewMemRepository() *MemRepository {
	return &MemRepository{deals: make(map[string]entity.Deal)}
}

func (r *MemRepository) UpsertDeal(_ context.Context, deal entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpsert != nil && r.FailUpsert(deal) {
		return ErrInjected
	}

	k := deal.Key()

	existing, ok := r.deals[k]
	if !ok {
		r.deals[k] = deal
		r.order = append(r.order, k)

		return nil
	}

	existing.ArrangementFee = deal.ArrangementFee
	existing.LastScraped = deal.LastScraped
	r.deals[k] = existing

	return nil
}

func (r *MemRepository) RecordIngestionRun(_ context.Context, run entity.IngestionRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = int64(len(r.runs) + 1)
	r.runs = append(r.runs, run)

	return nil
}

func (r *MemRepository) ListIngestionRuns(_ context.Context, limit int) ([]entity.IngestionRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.IngestionRun, 0, len(r.runs))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}

	return out, nil
}

func (r *MemRepository) QueryDeals(_ context.Context, filters filter.Set, limit int) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailQuery {
		return nil, ErrInjected
	}

	match := filters.Composite().Match

	var out []entity.Deal
	for _, k := range r.order {
		if d := r.deals[k]; match(d) {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InterestRate.LessThan(out[j].InterestRate)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *MemRepository) GetStats(_ context.Context) (entity.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := entity.Stats{CountsBySource: make(map[string]int)}

	sum := decimal.Zero
	for _, k := range r.order {
		d := r.deals[k]
		stats.TotalDeals++
		stats.CountsBySource[d.Source]++
		sum = sum.Add(d.InterestRate)

		if stats.TotalDeals == 1 || d.InterestRate.LessThan(stats.LowestRate) {
			stats.LowestRate = d.InterestRate
		}
	}

	if stats.TotalDeals > 0 {
		stats.AverageRate = sum.Div(decimal.NewFromInt(int64(stats.TotalDeals))).Round(2)
	}

	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].Status == entity.RunStatusSuccess {
			at := r.runs[i].CreatedAt
			stats.LastSuccessfulRun = &at

			break
		}
	}

	return stats, nil
}

// Deals returns a snapshot in insertion order.
func (r *MemRepository) Deals() []entity.Deal {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Deal, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.deals[k])
	}

	return out
}

func (r *MemRepository) Runs() []entity.IngestionRun {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]entity.IngestionRun(nil), r.runs...)
}
