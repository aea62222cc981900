package source

import (
	"context"
	"net/http"

	"mortgage_deals/internal/config"
	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/internal/domain/value"
)

type Adapter interface {
	Name() string
	Acquire(ctx context.Context, params value.AcquireParams) ([]value.Candidate, error)
}

// Registry holds the configured adapters in configuration order: browser
// sources first, then feeds, then the optional sample source.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds adapters from cfg. client is used by feed adapters.
func NewRegistry(cfg config.Sources, client *http.Client, sample []value.Candidate) (*Registry, error) {
	browsers, err := cfg.BrowserSpecs()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	feeds, err := cfg.FeedSpecs()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	r := &Registry{}

	for _, spec := range browsers {
		r.adapters = append(r.adapters, NewBrowserAdapter(spec.Name, spec.PageURL, spec.Script).
			WithBin(cfg.BrowserBin).
			WithControlURL(cfg.BrowserControlURL))
	}

	for _, spec := range feeds {
		r.adapters = append(r.adapters, NewFeedAdapter(spec.Name, spec.URL, client))
	}

	if cfg.Sample {
		r.adapters = append(r.adapters, NewStaticAdapter(search.SampleSource, sample))
	}

	return r, nil
}

func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return names
}
