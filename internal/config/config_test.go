package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PG_DSN", "postgres://localhost:5432/deals")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(":8080", cfg.HTTP.ListenAddress)
	rq.Equal(config.SchedulerNone, cfg.Scheduler.Mode)
	rq.Equal(45*time.Second, cfg.Sources.AcquireTimeout)
	rq.Equal(time.Minute, cfg.Sources.LiveBudget)
	rq.True(decimal.NewFromInt(200000).Equal(cfg.Finance.Principal))
	rq.Equal(25, cfg.Finance.TermYears)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing dsn",
			env:  map[string]string{"PG_DSN": ""},
		},
		{
			name: "unknown scheduler",
			env:  map[string]string{"SCHEDULER_MODE": "hourly"},
		},
		{
			name: "feed without url",
			env:  map[string]string{"SOURCES_FEEDS": "broker"},
		},
		{
			name: "browser script missing",
			env:  map[string]string{"SOURCES_BROWSER": "moneyfacts|https://example.org|/nonexistent/extract.js"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PG_DSN", "postgres://localhost:5432/deals")

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestSourceSpecs(t *testing.T) {
	rq := require.New(t)

	script := filepath.Join(t.TempDir(), "extract.js")
	rq.NoError(os.WriteFile(script, []byte(`() => [{"lenderName": "HSBC"}]`), 0o600))

	sources := config.Sources{
		Browser: []string{"comparison | https://example.org/deals | " + script},
		Feeds:   []string{"broker|https://feed.example.org/v1/deals", "bank|https://bank.example.org/rates"},
	}

	browser, err := sources.BrowserSpecs()
	rq.NoError(err)
	rq.Equal([]config.BrowserSpec{{
		Name:    "comparison",
		PageURL: "https://example.org/deals",
		Script:  `() => [{"lenderName": "HSBC"}]`,
	}}, browser)

	feeds, err := sources.FeedSpecs()
	rq.NoError(err)
	rq.Equal([]config.FeedSpec{
		{Name: "broker", URL: "https://feed.example.org/v1/deals"},
		{Name: "bank", URL: "https://bank.example.org/rates"},
	}, feeds)
}
