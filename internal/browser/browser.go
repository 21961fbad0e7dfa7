// Package browser is the rendered-fetch lane: some stores only load
// their result grid from client-side script, so the markup has to come
// out of a real headless browser instead of a plain GET.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        60 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "es-AR",
		TimezoneID:     "America/Argentina/Buenos_Aires",
	}
}

// Renderer produces fully rendered markup for a URL. Each Render call
// owns an isolated browser session that is torn down before the call
// returns, on success and failure alike.
type Renderer struct {
	opts   *Options
	logger *slog.Logger
}

func NewRenderer(opts *Options, logger *slog.Logger) *Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Renderer{
		opts:   opts,
		logger: logger.With("component", "browser"),
	}
}

// Render navigates to url, waits for network idle, scrolls to the
// bottom until the page stops growing to trigger lazy-loaded results,
// waits for network idle again and returns the final markup.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("failed to start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(r.opts.UserAgent),
		Locale:     playwright.String(r.opts.Locale),
		TimezoneId: playwright.String(r.opts.TimezoneID),
		Viewport: &playwright.Size{
			Width:  r.opts.ViewportWidth,
			Height: r.opts.ViewportHeight,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create browser context: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(r.opts.Timeout.Milliseconds()))

	r.logger.Info("rendering page", "url", url)

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	if err := r.scrollToBottom(ctx, page); err != nil {
		return "", err
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return "", fmt.Errorf("failed waiting for network idle: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	return html, nil
}

// scrollToBottom keeps scrolling until the scroll offset stabilizes
// across two consecutive checks, pausing between scrolls so lazy
// content has a chance to load.
func (r *Renderer) scrollToBottom(ctx context.Context, page playwright.Page) error {
	lastPosition := -1.0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := page.Evaluate("() => window.pageYOffset")
		if err != nil {
			return fmt.Errorf("failed to read scroll position: %w", err)
		}

		position := toFloat(result)
		if position == lastPosition {
			return nil
		}
		lastPosition = position

		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}
		page.WaitForTimeout(500)
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
