package source

import (
	"context"
	"maps"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/value"
)

// StaticAdapter serves a fixed candidate list.
type StaticAdapter struct {
	name       string
	candidates []value.Candidate
}

func NewStaticAdapter(name string, candidates []value.Candidate) *StaticAdapter {
	return &StaticAdapter{name: name, candidates: candidates}
}

func (a *StaticAdapter) Name() string {
	return a.name
}

func (a *StaticAdapter) Acquire(ctx context.Context, _ value.AcquireParams) ([]value.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, err)
	}

	out := make([]value.Candidate, 0, len(a.candidates))
	for _, c := range a.candidates {
		out = append(out, maps.Clone(c))
	}

	return out, nil
}
