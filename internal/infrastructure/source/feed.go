package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/value"
)

const maxFeedBytes = 8 << 20

// FeedAdapter fetches deals from a JSON endpoint. Transport concerns such
// as logging and auth live in the client's RoundTripper chain.
type FeedAdapter struct {
	name   string
	url    string
	client *http.Client
}

func NewFeedAdapter(name, url string, client *http.Client) *FeedAdapter {
	if client == nil {
		client = http.DefaultClient
	}

	return &FeedAdapter{
		name:   name,
		url:    url,
		client: client,
	}
}

func (a *FeedAdapter) Name() string {
	return a.name
}

func (a *FeedAdapter) Acquire(ctx context.Context, params value.AcquireParams) ([]value.Candidate, error) {
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, fmt.Errorf("http.NewRequest: %w", err))
	}

	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, fmt.Errorf("client.Do: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewSourceAcquisitionError(a.name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, fmt.Errorf("io.ReadAll: %w", err))
	}

	candidates, err := decodeCandidates(body)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, err)
	}

	return candidates, nil
}

var ErrNoToken = errors.New("feed token is not configured")

// StaticToken is a bearer token source backed by configuration.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}

	return string(t), nil
}
