package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/value"
	"mortgage_deals/pkg/logx"
)

var errNoScript = errors.New("extractor script is empty")

// BrowserAdapter renders a page in headless Chrome and evaluates an
// extractor script, a JS function such as `() => [...]` returning plain
// objects. Every
// Acquire owns its own browser and releases it before returning.
type BrowserAdapter struct {
	name       string
	pageURL    string
	script     string
	bin        string
	controlURL string
}

func NewBrowserAdapter(name, pageURL, script string) *BrowserAdapter {
	return &BrowserAdapter{
		name:    name,
		pageURL: pageURL,
		script:  script,
	}
}

// WithBin points the launcher at a specific Chrome binary.
func (a *BrowserAdapter) WithBin(bin string) *BrowserAdapter {
	a.bin = bin
	return a
}

// WithControlURL attaches to a running browser instead of launching one.
// Each acquisition then uses its own incognito context.
func (a *BrowserAdapter) WithControlURL(u string) *BrowserAdapter {
	a.controlURL = u
	return a
}

func (a *BrowserAdapter) Name() string {
	return a.name
}

func (a *BrowserAdapter) Acquire(ctx context.Context, params value.AcquireParams) ([]value.Candidate, error) {
	if a.script == "" {
		return nil, domain.NewSourceAcquisitionError(a.name, errNoScript)
	}

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	browser, release, err := a.open(ctx)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, err)
	}
	defer release()

	raw, err := a.extract(ctx, browser)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, err)
	}

	candidates, err := decodeCandidates(raw)
	if err != nil {
		return nil, domain.NewSourceAcquisitionError(a.name, err)
	}

	return candidates, nil
}

func (a *BrowserAdapter) open(ctx context.Context) (*rod.Browser, func(), error) {
	if a.controlURL != "" {
		remote := rod.New().Context(ctx).ControlURL(a.controlURL)
		if err := remote.Connect(); err != nil {
			return nil, nil, fmt.Errorf("browser.Connect: %w", err)
		}

		incognito, err := remote.Incognito()
		if err != nil {
			return nil, nil, fmt.Errorf("browser.Incognito: %w", err)
		}

		return incognito, func() {
			if err := incognito.Close(); err != nil {
				logger(ctx).Warn("incognito.Close", slog.String(logx.FieldSource, a.name), logx.Error(err))
			}
		}, nil
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		Set("disable-blink-features", "AutomationControlled")

	if a.bin != "" {
		l = l.Bin(a.bin)
	}

	u, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("launcher.Launch: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, fmt.Errorf("browser.Connect: %w", err)
	}

	return browser, func() {
		if err := browser.Close(); err != nil {
			logger(ctx).Warn("browser.Close", slog.String(logx.FieldSource, a.name), logx.Error(err))
			l.Kill()
		}
		l.Cleanup()
	}, nil
}

func (a *BrowserAdapter) extract(ctx context.Context, browser *rod.Browser) ([]byte, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("stealth.Page: %w", err)
	}
	defer page.Close() //nolint:errcheck

	page = page.Context(ctx)

	if err := page.Navigate(a.pageURL); err != nil {
		return nil, fmt.Errorf("page.Navigate %s: %w", a.pageURL, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page.WaitLoad: %w", err)
	}

	res, err := page.Eval(a.script)
	if err != nil {
		return nil, fmt.Errorf("page.Eval: %w", err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("value.MarshalJSON: %w", err)
	}

	return raw, nil
}
