// Package downloader drives the two-click PDF export flow on document pages
// and detects download completion by observing the download directory.
package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/avolkov/minutedigest/pkg/artifacts"
	"github.com/avolkov/minutedigest/pkg/browser"
)

// Result records the outcome of one URL.
type Result struct {
	URL  string
	Path string
	Err  error
}

// Orchestrator visits each document URL, clicks the export button and the
// confirmation button it reveals, and waits for the file to land. Element
// timeouts skip only the current URL; a dead browser aborts the rest.
type Orchestrator struct {
	Logger          *slog.Logger
	Manager         *artifacts.Manager
	Detector        Detector
	FirstSelector   string
	SecondSelector  string
	WaitTimeout     time.Duration
	DownloadTimeout time.Duration
}

// Run processes urls in order and returns one result per attempted URL. When
// the browser dies mid-run the remaining URLs are not attempted and do not
// appear in the results.
func (o *Orchestrator) Run(s *browser.Session, urls []string) []Result {
	results := make([]Result, 0, len(urls))

	for i, url := range urls {
		o.Logger.Info("Processing document page", "index", i+1, "total", len(urls), "url", url)

		path, err := o.download(s, url)
		results = append(results, Result{URL: url, Path: path, Err: err})

		if err == nil {
			o.Logger.Info("Download completed", "url", url, "path", path)
			continue
		}

		if s.Dead() || browser.IsFatal(err) {
			o.Logger.Error("Browser fault, aborting remaining downloads", "url", url, "error", err)
			break
		}

		o.Logger.Warn("Download failed, skipping URL", "url", url, "error", err)
		o.screenshot(s, url)
	}

	return results
}

func (o *Orchestrator) download(s *browser.Session, url string) (string, error) {
	before, err := SnapshotDir(o.Manager.DownloadDir())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(s.Ctx(), o.WaitTimeout)
	defer cancel()

	var pageHTML string
	err = chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(o.FirstSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
		chromedp.Click(o.FirstSelector, chromedp.ByQuery),
		// The second button only exists after the first click opened the
		// export dialog.
		chromedp.WaitVisible(o.SecondSelector, chromedp.ByQuery),
		chromedp.Click(o.SecondSelector, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("export click sequence failed: %w", err)
	}

	dlCtx, dlCancel := context.WithTimeout(s.Ctx(), o.DownloadTimeout)
	defer dlCancel()

	path, err := o.Detector.WaitForDownload(dlCtx, before)
	if err != nil {
		return "", err
	}

	if pageHTML != "" {
		if err := o.Manager.SavePageHTML(path, []byte(pageHTML)); err != nil {
			o.Logger.Warn("Failed to store page HTML", "url", url, "error", err)
		}
	}
	return path, nil
}

var unsafeURLChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (o *Orchestrator) screenshot(s *browser.Session, url string) {
	name := strings.Trim(unsafeURLChars.ReplaceAllString(url, "_"), "_")
	if len(name) > 120 {
		name = name[:120]
	}
	path := filepath.Join(o.Manager.DiagnosticsDir(), "download_error_"+name+".png")
	if err := s.Screenshot(path); err != nil {
		o.Logger.Warn("Failed to capture diagnostic screenshot", "url", url, "error", err)
		return
	}
	o.Logger.Info("Saved diagnostic screenshot", "path", path)
}
