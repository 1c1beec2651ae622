package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
	"visacheck/internal/components/telemetry"

	"github.com/playwright-community/playwright-go"
)

const (
	report_browser_launch = "browser.launch"
	report_browser_close  = "browser.close"
)

type Options struct {
	// Browser is one of chromium (default), firefox or webkit.
	Browser  string
	Headless bool
	SlowMo   time.Duration
	Args     []string
	// DefaultTimeout is used by calls whose context has no deadline.
	DefaultTimeout time.Duration
}

// Session is a single browser page, it is not safe for concurrent use.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	defaultTimeout time.Duration
	tel            telemetry.API
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "", "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unknown browser %q", name)
}

// Launch starts the playwright driver and opens one page in a fresh browser.
func Launch(ctx context.Context, opts Options, tel telemetry.API) (*Session, error) {
	tel = telemetry.NewScopedAPI("browser", tel)
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		tel.ReportBroken(report_browser_launch, fmt.Errorf("start driver: %w", err))
		return nil, fmt.Errorf("browser: start playwright (try `visacheck install`): %w", err)
	}

	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("browser: %w", err), pw.Stop())
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	browser, err := bt.Launch(launchOpts)
	if err != nil {
		tel.ReportBroken(report_browser_launch, fmt.Errorf("launch %s: %w", bt.Name(), err))
		return nil, errors.Join(fmt.Errorf("browser: launch %s: %w", bt.Name(), err), pw.Stop())
	}

	page, err := browser.NewPage()
	if err != nil {
		tel.ReportBroken(report_browser_launch, fmt.Errorf("new page: %w", err))
		return nil, errors.Join(fmt.Errorf("browser: new page: %w", err), browser.Close(), pw.Stop())
	}
	page.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))

	tel.ReportDebug("launched", bt.Name(), "headless", opts.Headless)

	return &Session{
		pw:             pw,
		browser:        browser,
		page:           page,
		defaultTimeout: opts.DefaultTimeout,
		tel:            tel,
	}, nil
}

// timeout converts the context deadline into playwright milliseconds.
func (s *Session) timeout(ctx context.Context) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return playwright.Float(float64(timeoutFor(ctx, s.defaultTimeout).Milliseconds())), nil
}

func timeoutFor(ctx context.Context, fallback time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return fallback
	}
	remaining := time.Until(deadline)
	// playwright treats 0 as "no timeout"
	if remaining < time.Millisecond {
		return time.Millisecond
	}
	return remaining
}

func (s *Session) locator(selector string) playwright.Locator {
	return s.page.Locator(selector).First()
}

func (s *Session) Goto(ctx context.Context, url string) error {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	_, err = s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   timeout,
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	return s.locator(selector).Fill(value, playwright.LocatorFillOptions{Timeout: timeout})
}

func (s *Session) Click(ctx context.Context, selector string) error {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	return s.locator(selector).Click(playwright.LocatorClickOptions{Timeout: timeout})
}

func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	return s.locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeout,
	})
}

func (s *Session) IsVisible(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.locator(selector).IsVisible()
}

func (s *Session) Attribute(ctx context.Context, selector, name string) (string, error) {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return "", err
	}
	return s.locator(selector).GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: timeout})
}

func (s *Session) WaitSettled(ctx context.Context) error {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: timeout,
	})
}

// Content returns the current page HTML.
func (s *Session) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Content()
}

// Screenshot returns a full page PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	timeout, err := s.timeout(ctx)
	if err != nil {
		return nil, err
	}
	return s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  timeout,
	})
}

// URL is the address of the current page.
func (s *Session) URL() string {
	return s.page.URL()
}

// Close tears down the page, the browser and the driver, in that order.
func (s *Session) Close() error {
	var errlist []error
	if err := s.page.Close(); err != nil {
		errlist = append(errlist, fmt.Errorf("close page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errlist = append(errlist, fmt.Errorf("close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errlist = append(errlist, fmt.Errorf("stop driver: %w", err))
	}

	err := errors.Join(errlist...)
	if err != nil {
		s.tel.ReportWarning(report_browser_close, err)
	}
	return err
}

// Install downloads the playwright driver and the named browsers (chromium if
// none are given).
func Install(ctx context.Context, browsers ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(browsers) == 0 {
		browsers = []string{"chromium"}
	}
	err := playwright.Install(&playwright.RunOptions{Browsers: browsers})
	if err != nil {
		return fmt.Errorf("browser: install %v: %w", browsers, err)
	}
	return nil
}
