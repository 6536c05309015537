// =============================================================================
// Stock Adjustment Tool - Browser Driver
// =============================================================================
//
// This module defines the small set of browser actions the upload sequence
// needs, and a go-rod implementation of them.
//
// SELECTORS:
//   Every method takes a selector from the locator map. Selectors starting
//   with "/" or "(" are evaluated as XPath, anything else as CSS.
//
// TIMEOUTS:
//   Every lookup and navigation is bounded by the configured element timeout
//   and by the caller's context, whichever ends first.
//
// =============================================================================

package uploader

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// =============================================================================
// DRIVER INTERFACE
// =============================================================================

// Driver is a single browser page driven by the upload sequence.
type Driver interface {
	// Navigate loads url and waits for the page load event.
	Navigate(ctx context.Context, url string) error

	// Fill replaces the text of an input element.
	Fill(ctx context.Context, selector, value string) error

	// Click clicks an element once it is interactable.
	Click(ctx context.Context, selector string) error

	// WaitPresent waits until an element is attached to the DOM.
	WaitPresent(ctx context.Context, selector string) error

	// WaitVisible waits until an element is visible.
	WaitVisible(ctx context.Context, selector string) error

	// SetFiles attaches local files to a file input element.
	SetFiles(ctx context.Context, selector string, paths []string) error

	// Text returns the rendered text of an element.
	Text(ctx context.Context, selector string) (string, error)

	// Close shuts the browser down.
	Close() error
}

// DriverFactory launches a browser and returns a Driver for a fresh page.
type DriverFactory func(ctx context.Context, cfg config.BrowserConfig) (Driver, error)

// =============================================================================
// ROD DRIVER
// =============================================================================

type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

// NewRodDriver launches Chromium through go-rod.
//
// PARAMETERS:
//   - ctx: Bounds the launch and connect.
//   - cfg: Browser binary, headless mode and element timeout.
//
// RETURNS:
//   - A Driver owning the browser process. Close must be called.
//   - An error if the browser cannot be launched or connected.
//
// When cfg.Bin is empty, rod looks up a local Chrome or downloads its
// managed Chromium.
func NewRodDriver(ctx context.Context, cfg config.BrowserConfig) (Driver, error) {
	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &rodDriver{
		launcher: l,
		browser:  browser,
		page:     page,
		timeout:  cfg.ElementTimeout(),
	}, nil
}

func (d *rodDriver) scoped(ctx context.Context) *rod.Page {
	page := d.page.Context(ctx)
	if d.timeout > 0 {
		page = page.Timeout(d.timeout)
	}
	return page
}

func (d *rodDriver) element(ctx context.Context, selector string) (*rod.Element, error) {
	page := d.scoped(ctx)

	var (
		el  *rod.Element
		err error
	)
	if config.IsXPath(selector) {
		el, err = page.ElementX(selector)
	} else {
		el, err = page.Element(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", selector, err)
	}
	return el, nil
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	page := d.scoped(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (d *rodDriver) Fill(ctx context.Context, selector, value string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("failed to select text of %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("failed to fill %s: %w", selector, err)
	}
	return nil
}

func (d *rodDriver) Click(ctx context.Context, selector string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

func (d *rodDriver) WaitPresent(ctx context.Context, selector string) error {
	_, err := d.element(ctx, selector)
	return err
}

func (d *rodDriver) WaitVisible(ctx context.Context, selector string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s never became visible: %w", selector, err)
	}
	return nil
}

func (d *rodDriver) SetFiles(ctx context.Context, selector string, paths []string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.SetFiles(paths); err != nil {
		return fmt.Errorf("failed to attach files to %s: %w", selector, err)
	}
	return nil
}

func (d *rodDriver) Text(ctx context.Context, selector string) (string, error) {
	el, err := d.element(ctx, selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", selector, err)
	}
	return text, nil
}

// Close closes the browser and kills the process if the graceful close
// fails, then removes the launcher's temporary profile.
func (d *rodDriver) Close() error {
	err := d.browser.Close()
	d.launcher.Kill()
	d.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
