package source

import (
	"log/slog"
	"net/http"
	"time"

	"mortgage_deals/pkg/httpx"
	"mortgage_deals/pkg/logx"
)

// NewFeedClient wraps http.DefaultTransport with debug-level exchange
// logging and, when token is set, bearer auth.
func NewFeedClient(token string, logFieldMaxLen int, timeout time.Duration) *http.Client {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
		httpx.WithLevel(slog.LevelDebug),
	)

	if token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, StaticToken(token))
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
