// Package browser owns the Chrome session used by the extraction and download
// stages. Each stage creates its own session and tears it down when the stage
// finishes; sessions are never shared.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// Session wraps an allocated Chrome tab and its cancel chain.
type Session struct {
	ctx             context.Context
	cancelBrowser   context.CancelFunc
	cancelAllocator context.CancelFunc
}

// Options controls session construction.
type Options struct {
	Headless bool
	// DownloadDir, when set, directs Chrome to save downloads there without
	// prompting. The directory is created if missing.
	DownloadDir string
	UserAgent   string
}

// NewSession starts a Chrome instance and returns a ready session. The caller
// must Close it.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocatorCtx)

	// Force Chrome to actually start so missing binaries surface here, as a
	// fatal precondition, instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAllocator()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s := &Session{
		ctx:             browserCtx,
		cancelBrowser:   cancelBrowser,
		cancelAllocator: cancelAllocator,
	}

	if opts.DownloadDir != "" {
		if err := s.allowDownloads(opts.DownloadDir); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Ctx returns the chromedp context actions run against.
func (s *Session) Ctx() context.Context {
	return s.ctx
}

// Close tears down the tab and the Chrome process.
func (s *Session) Close() {
	s.cancelBrowser()
	s.cancelAllocator()
}

func (s *Session) allowDownloads(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve download dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}

	err = chromedp.Run(s.ctx,
		cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(abs),
	)
	if err != nil {
		return fmt.Errorf("failed to set download behavior: %w", err)
	}
	return nil
}

// Screenshot captures the current viewport to path. Used only as a diagnostic
// artifact on failure; errors are returned for logging, never acted on.
func (s *Session) Screenshot(path string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

// Dead reports whether the session context has been torn down, which means
// the Chrome process crashed or was cancelled. A dead session aborts the whole
// stage; element-level timeouts do not kill the session and are per-item
// failures.
func (s *Session) Dead() bool {
	return s.ctx.Err() != nil
}

// IsFatal reports whether err by itself indicates the browser is gone rather
// than a single element misbehaving.
func IsFatal(err error) bool {
	return errors.Is(err, context.Canceled)
}
