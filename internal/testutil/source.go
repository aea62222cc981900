package testutil

import (
	"context"
	"sync/atomic"

	"mortgage_deals/internal/domain/value"
)

// FakeSource returns fixed candidates or a fixed error. A blocking source
// hangs until its context is done.
type FakeSource struct {
	SourceName string
	Candidates []value.Candidate
	Err        error
	Panic      bool
	Block      bool

	calls atomic.Int32
}

func (f *FakeSource) Name() string {
	return f.SourceName
}

func (f *FakeSource) Acquire(ctx context.Context, _ value.AcquireParams) ([]value.Candidate, error) {
	f.calls.Add(1)

	if f.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if f.Panic {
		panic("adapter exploded")
	}

	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]value.Candidate, len(f.Candidates))
	copy(out, f.Candidates)

	return out, nil
}

func (f *FakeSource) Calls() int {
	return int(f.calls.Load())
}
