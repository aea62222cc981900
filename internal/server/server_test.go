package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/service/finance"
	"mortgage_deals/internal/domain/service/ingestion"
	"mortgage_deals/internal/domain/service/normalizer"
	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/internal/server"
	"mortgage_deals/internal/testutil"
	"mortgage_deals/pkg/errcodes"
	"mortgage_deals/pkg/rest"
	"mortgage_deals/pkg/tests"
)

type fixture struct {
	client tests.APIClient
	repo   *testutil.MemRepository
}

func newFixture(t *testing.T, sources ...*testutil.FakeSource) fixture {
	t.Helper()

	repo := testutil.NewMemRepository()
	norm := normalizer.New()

	ingestionSources := make([]ingestion.Source, 0, len(sources))
	for _, s := range sources {
		ingestionSources = append(ingestionSources, s)
	}

	engine := search.NewEngine(repo, norm, finance.Params{
		Principal: decimal.NewFromInt(200000),
		Years:     25,
	}).WithLiveCacheTTL(0)

	srv := server.NewServer(
		server.NewDealServer(engine),
		server.NewIngestionServer(ingestion.NewService(repo, repo, norm, ingestionSources...), repo),
		server.NewStatsServer(repo),
	)

	httpServer := httptest.NewServer(server.NewRouter(srv, 4096))
	t.Cleanup(httpServer.Close)

	return fixture{
		client: tests.NewAPIClient(httpServer.URL, httpServer.Client(), t.Logf),
		repo:   repo,
	}
}

func TestIngestThenQuery(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newFixture(t,
		&testutil.FakeSource{SourceName: "broken", Err: errors.New("selector not found")},
		&testutil.FakeSource{SourceName: "feed", Candidates: []value.Candidate{
			{"lenderName": "A", "productName": "2 Year Fixed", "interestRate": "4.25%", "arrangementFee": "£999"},
			{"lenderName": "B", "productName": "2 Year Fixed", "interestRate": 4.1},
			{"lenderName": "C", "productName": "Tracker", "interestRate": 3.9, "dealType": "tracker"},
			{"lenderName": "D", "productName": "No rate"},
		}},
	)

	var results []rest.IngestionResult

	resp, err := f.client.Post(ctx, "/v1/ingestions", nil, struct{}{}, &results, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]rest.IngestionResult{
		{Source: "broken", Count: 0, Status: "error", Error: results[0].Error},
		{Source: "feed", Count: 3, Status: "success"},
	}, results)
	rq.Contains(results[0].Error, "selector not found")

	var deals rest.DealsResponse

	resp, err = f.client.Get(ctx, "/v1/deals?maxRate=4.3&dealType=Fixed&baseline=1200", nil, &deals, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("database", deals.Source)
	rq.Len(deals.Deals, 2)
	rq.Equal("B", deals.Deals[0].LenderName)
	rq.Equal("A", deals.Deals[1].LenderName)
	rq.True(deals.Deals[1].ArrangementFee.Equal(decimal.NewFromInt(999)))
	rq.NotNil(deals.Deals[0].Metrics.MonthlySavings)

	var runs []rest.IngestionRun

	resp, err = f.client.Get(ctx, "/v1/ingestions?limit=10", nil, &runs, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(runs, 2)

	var stats rest.Stats

	resp, err = f.client.Get(ctx, "/v1/stats", nil, &stats, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(3, stats.TotalDeals)
	rq.Equal(map[string]int{"feed": 3}, stats.CountsBySource)
	rq.NotNil(stats.LastSuccessfulRun)
}

func TestDealsFallBackToSample(t *testing.T) {
	rq := require.New(t)

	f := newFixture(t)

	var deals rest.DealsResponse

	resp, err := f.client.Post(context.Background(), "/v1/deals/search", nil, rest.DealSearchRequest{
		DealType: func() *string { s := "fixed"; return &s }(),
		Limit:    2,
	}, &deals, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("static", deals.Source)
	rq.Len(deals.Deals, 2)

	for _, d := range deals.Deals {
		rq.Equal("Fixed", d.DealType)
		rq.Equal(search.SampleSource, d.Source)
	}
}

func TestDealsRejectsMalformedFilters(t *testing.T) {
	rq := require.New(t)

	f := newFixture(t)

	testCases := []struct {
		name string
		path string
		code string
	}{
		{name: "Rate", path: "/v1/deals?maxRate=cheap", code: errcodes.InvalidFilter.String()},
		{name: "Deal type", path: "/v1/deals?dealType=Balloon", code: errcodes.InvalidFilter.String()},
		{name: "Flag", path: "/v1/deals?freeValuation=maybe", code: errcodes.InvalidFilter.String()},
		{name: "Term", path: "/v1/deals?termYears=0", code: errcodes.InvalidFilter.String()},
		{name: "Principal", path: "/v1/deals?principal=0", code: errcodes.InvalidFinanceParams.String()},
		{name: "Years", path: "/v1/deals?years=-1", code: errcodes.InvalidFinanceParams.String()},
		{name: "Years beyond term cap", path: "/v1/deals?years=1000000", code: errcodes.InvalidFinanceParams.String()},
		{name: "Principal beyond cap", path: "/v1/deals?principal=1e400", code: errcodes.InvalidFinanceParams.String()},
		{name: "Paging", path: "/v1/ingestions?limit=abc", code: errcodes.InvalidPaging.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var errResp rest.Error

			resp, err := f.client.Get(context.Background(), tc.path, nil, nil, &errResp)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, resp.StatusCode)
			rq.Equal(tc.code, string(errResp.Code))
			rq.NotEmpty(errResp.SupportID)
		})
	}
}

func TestDealsSearchValidation(t *testing.T) {
	rq := require.New(t)

	f := newFixture(t)

	var errResp rest.Error

	resp, err := f.client.PostJSON(context.Background(), "/v1/deals/search", nil,
		`{"dealType":"Balloon"}`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.ValidationError.String(), string(errResp.Code))
}

func TestDealsIgnoresInvalidLimit(t *testing.T) {
	rq := require.New(t)

	f := newFixture(t)

	var deals rest.DealsResponse

	resp, err := f.client.Get(context.Background(), "/v1/deals?limit=100000", nil, &deals, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.NotEmpty(deals.Deals)
}
