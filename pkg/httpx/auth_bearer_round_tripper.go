package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when the upstream rejects the bearer token.
var ErrUnauthorized = errors.New("upstream rejected bearer token")

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// AuthBearerRoundTripper sets the Authorization header on a copy of every
// outgoing request.
type AuthBearerRoundTripper struct {
	next   http.RoundTripper
	tokens tokenSource
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	tokens tokenSource,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:   next,
		tokens: tokens,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := rt.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("tokens.Token: %w", err)
	}

	authorized := req.Clone(req.Context())
	authorized.Header.Set("Authorization", "Bearer "+token)

	resp, err := rt.next.RoundTrip(authorized)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), ErrUnauthorized)
	}

	return resp, nil
}
