// Package screenshot captures site previews with a real browser so
// JS-heavy medspa sites render before the shot is taken.
package screenshot

import (
	"context"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"frontdesk/internal/config"
	"frontdesk/internal/errs"
)

type Capturer struct {
	browserURL string
	timeout    time.Duration
}

func NewCapturer(cfg config.ScreenshotConfig, browserURL string) *Capturer {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Capturer{browserURL: browserURL, timeout: timeout}
}

// Capture renders the page and returns PNG bytes. fullPage scrolls the
// whole document into the shot instead of just the viewport.
func (c *Capturer) Capture(ctx context.Context, rawURL string, fullPage bool) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" && u.Path == "" {
		return nil, errs.New(errs.CodeInvalidArg, "invalid screenshot url %q", rawURL)
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	browser := rod.New().Context(ctx).Timeout(c.timeout)
	if c.browserURL != "" {
		browser = browser.ControlURL(c.browserURL)
	}
	if err := browser.Connect(); err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "failed to connect to browser")
	}
	defer browser.MustClose()

	page, err := browser.Page(proto.TargetCreateTarget{URL: u.String()})
	if err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "failed to open page")
	}
	defer page.MustClose()

	if err := page.WaitLoad(); err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "page did not finish loading")
	}

	data, err := page.Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "screenshot failed")
	}
	return data, nil
}
