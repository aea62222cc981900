package probe_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"mortgage_deals/pkg/probe"
)

func TestServer(t *testing.T) {
	rq := require.New(t)

	okCheck := func(context.Context) error { return nil }
	downCheck := func(context.Context) error { return errors.New("connection refused") }

	testCases := []struct {
		name          string
		listenAddress string
		endpoint      string
		checks        map[string]probe.Check
		statusCode    int
		body          []byte
	}{
		{
			name:          "Health handler",
			listenAddress: ":10001",
			endpoint:      "http://:10001/healthz",
			checks:        map[string]probe.Check{"postgres": downCheck},
			statusCode:    http.StatusOK,
			body:          []byte(`{"name":"mortgage-deals","version":"v0.0.1"}`),
		},
		{
			name:          "Ready handler",
			listenAddress: ":10002",
			endpoint:      "http://:10002/ready",
			checks:        map[string]probe.Check{"postgres": okCheck},
			statusCode:    http.StatusOK,
			body:          []byte(`{"name":"mortgage-deals","version":"v0.0.1"}`),
		},
		{
			name:          "Ready handler with failing checks",
			listenAddress: ":10003",
			endpoint:      "http://:10003/ready",
			checks:        map[string]probe.Check{"redis": downCheck, "postgres": downCheck, "browser": okCheck},
			statusCode:    http.StatusServiceUnavailable,
			body:          []byte(`{"name":"mortgage-deals","version":"v0.0.1","failed":["postgres","redis"]}`),
		},
		{
			name:          "Invalid endpoint",
			listenAddress: ":10004",
			endpoint:      "http://:10004/invalid",
			statusCode:    http.StatusNotFound,
			body:          []byte("404 page not found\n"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			probeServer := probe.NewServer(
				tc.listenAddress,
				probe.Options{
					Name:    "mortgage-deals",
					Version: "v0.0.1",
				},
				tc.checks,
			)

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return probeServer.Run(ctx)
			})

			// Wait for server to start.
			time.Sleep(time.Second)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			bodyBytes, err := io.ReadAll(resp.Body)
			rq.NoError(err)

			rq.Equal(tc.body, bodyBytes)

			cancel()

			rq.NoError(g.Wait())
		})
	}
}
