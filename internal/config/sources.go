package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"mortgage_deals/pkg/lox"
)

type Sources struct {
	AcquireTimeout time.Duration `env:"SOURCES_ACQUIRE_TIMEOUT" envDefault:"45s"`
	LiveCacheTTL   time.Duration `env:"SOURCES_LIVE_CACHE_TTL" envDefault:"10m"`
	// LiveBudget bounds the whole live fallback tier of one read.
	LiveBudget time.Duration `env:"SOURCES_LIVE_BUDGET" envDefault:"60s"`

	BrowserBin        string `env:"SOURCES_BROWSER_BIN"`
	BrowserControlURL string `env:"SOURCES_BROWSER_CONTROL_URL"`
	// Browser entries are name|pageURL|extractorScriptPath.
	Browser []string `env:"SOURCES_BROWSER" envSeparator:","`

	// Feeds entries are name|feedURL.
	Feeds     []string `env:"SOURCES_FEEDS" envSeparator:","`
	FeedToken string   `env:"SOURCES_FEED_TOKEN" json:"-"`

	// Sample registers the built-in sample deals as an ingestion source.
	Sample bool `env:"SOURCES_SAMPLE" envDefault:"false"`
}

type BrowserSpec struct {
	Name    string
	PageURL string
	Script  string
}

type FeedSpec struct {
	Name string
	URL  string
}

// BrowserSpecs parses SOURCES_BROWSER and reads every extractor script.
func (s Sources) BrowserSpecs() ([]BrowserSpec, error) {
	return lox.MapErr(s.Browser, func(entry string) (BrowserSpec, error) {
		parts, err := splitEntry(entry, 3)
		if err != nil {
			return BrowserSpec{}, err
		}

		script, err := os.ReadFile(parts[2])
		if err != nil {
			return BrowserSpec{}, fmt.Errorf("os.ReadFile: %w", err)
		}

		return BrowserSpec{
			Name:    parts[0],
			PageURL: parts[1],
			Script:  string(script),
		}, nil
	})
}

func (s Sources) FeedSpecs() ([]FeedSpec, error) {
	return lox.MapErr(s.Feeds, func(entry string) (FeedSpec, error) {
		parts, err := splitEntry(entry, 2)
		if err != nil {
			return FeedSpec{}, err
		}

		return FeedSpec{Name: parts[0], URL: parts[1]}, nil
	})
}

func splitEntry(entry string, n int) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(entry), "|")
	if len(parts) != n {
		return nil, fmt.Errorf("source entry %q: want %d fields separated by |", entry, n)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("source entry %q: empty field", entry)
		}
	}

	return parts, nil
}
