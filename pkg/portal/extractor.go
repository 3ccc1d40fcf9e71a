package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/avolkov/minutedigest/models"
	"github.com/avolkov/minutedigest/pkg/browser"
	"github.com/avolkov/minutedigest/pkg/poll"
)

// Extractor iterates the portal's category dropdown and collects document IDs
// from rendered result links. Per-category failures are logged and skipped;
// a dead browser session aborts the run.
type Extractor struct {
	Config        models.PortalConfig
	Logger        *slog.Logger
	WaitTimeout   time.Duration
	PollInterval  time.Duration
	ScreenshotDir string
}

// Run performs the full extraction against an open browser session.
func (e *Extractor) Run(s *browser.Session) (*Catalog, error) {
	catalog := NewCatalog()

	if err := e.navigate(s); err != nil {
		return nil, err
	}
	e.Logger.Info("Portal page loaded", "url", e.Config.URL)

	e.dismissModal(s)

	frame, err := e.findSearchFrame(s)
	if err != nil {
		// The page is unusable without the embedded search UI.
		e.screenshot(s, "iframe_not_found_error.png")
		return nil, err
	}

	dropdownHTML, err := e.dropdownHTML(s, frame)
	if err != nil {
		e.screenshot(s, "dropdown_not_visible_error.png")
		return nil, err
	}

	discovered, optionValues, err := DropdownOptions(dropdownHTML)
	if err != nil {
		return nil, err
	}

	categories := e.Config.Categories
	if len(categories) == 0 {
		if len(discovered) == 0 {
			return nil, errors.New("no categories found in the search dropdown")
		}
		categories = discovered
		e.Logger.Info("Discovered categories from dropdown", "count", len(categories))
	} else {
		e.Logger.Info("Using configured categories", "count", len(categories))
	}

	for _, category := range categories {
		e.Logger.Info("Processing category", "category", category)

		value, ok := optionValues[category]
		if !ok {
			e.Logger.Warn("Category not present in dropdown, skipping", "category", category)
			continue
		}

		prev := e.currentLinks(s, frame)

		if err := e.selectCategory(s, frame, value); err != nil {
			if s.Dead() || browser.IsFatal(err) {
				return catalog, fmt.Errorf("browser fault while selecting category %q: %w", category, err)
			}
			e.Logger.Warn("Failed to select category, skipping", "category", category, "error", err)
			continue
		}

		if err := e.submit(s, frame); err != nil {
			if s.Dead() || browser.IsFatal(err) {
				return catalog, fmt.Errorf("browser fault while submitting category %q: %w", category, err)
			}
			e.Logger.Warn("Failed to click submit, skipping", "category", category, "error", err)
			continue
		}

		e.waitForStale(s, frame, prev)

		if err := e.waitForResults(s, frame); err != nil {
			if s.Dead() || browser.IsFatal(err) {
				return catalog, fmt.Errorf("browser fault while waiting for results of %q: %w", category, err)
			}
			e.Logger.Warn("Timed out waiting for results, skipping", "category", category, "error", err)
			e.screenshot(s, "load_results_timeout_"+safeName(category)+".png")
			continue
		}

		if e.noResults(s, frame) {
			e.Logger.Info("No results for category", "category", category)
			catalog.EnsureCategory(category)
			continue
		}

		html, err := e.frameHTML(s, frame)
		if err != nil {
			if s.Dead() || browser.IsFatal(err) {
				return catalog, fmt.Errorf("browser fault while reading results of %q: %w", category, err)
			}
			e.Logger.Warn("Failed to read result page, skipping", "category", category, "error", err)
			continue
		}

		ids, err := CollectIDs(html, e.Config.DocLinkSelector)
		if err != nil {
			e.Logger.Warn("Failed to parse result page, skipping", "category", category, "error", err)
			continue
		}

		catalog.EnsureCategory(category)
		unique := 0
		for _, id := range ids {
			if catalog.Add(category, id) {
				unique++
			}
		}
		if unique > 0 {
			e.Logger.Info("Extracted unique IDs", "category", category, "count", unique)
		} else {
			e.Logger.Info("No IDs found, page structure may have changed", "category", category)
		}
	}

	return catalog, nil
}

func (e *Extractor) navigate(s *browser.Session) error {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(e.Config.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to open portal page: %w", err)
	}
	return nil
}

// dismissModal closes the interstitial subscription dialog when it shows up.
// The dialog is optional; failing to close it is logged and ignored.
func (e *Extractor) dismissModal(s *browser.Session) {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Click(e.Config.ModalCloseSelector, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.WaitNotVisible(e.Config.ModalCloseSelector, chromedp.ByQuery),
	)
	if err != nil {
		e.Logger.Warn("Interstitial modal did not appear or could not be closed, continuing", "error", err)
		return
	}
	e.Logger.Info("Closed interstitial modal")
}

// findSearchFrame locates the embedded search iframe. All later queries run
// against its subtree. Missing frame is fatal.
func (e *Extractor) findSearchFrame(s *browser.Session) (*cdp.Node, error) {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.WaitReady(e.Config.IframeSelector, chromedp.ByQuery),
		chromedp.Nodes(e.Config.IframeSelector, &nodes, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("search iframe %q not found: %w", e.Config.IframeSelector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("search iframe %q not present on page", e.Config.IframeSelector)
	}
	return nodes[0], nil
}

func (e *Extractor) dropdownHTML(s *browser.Session, frame *cdp.Node) (string, error) {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.ScrollIntoView(e.Config.DropdownSelector, chromedp.ByQuery, chromedp.FromNode(frame)),
		chromedp.WaitVisible(e.Config.DropdownSelector, chromedp.ByQuery, chromedp.FromNode(frame)),
		chromedp.OuterHTML(e.Config.DropdownSelector, &html, chromedp.ByQuery, chromedp.FromNode(frame)),
	)
	if err != nil {
		return "", fmt.Errorf("category dropdown %q not visible inside iframe: %w", e.Config.DropdownSelector, err)
	}
	return html, nil
}

// currentLinks snapshots the result links visible before a new submission so
// the staleness wait can tell old results from new ones. An empty snapshot is
// normal on the first category.
func (e *Extractor) currentLinks(s *browser.Session, frame *cdp.Node) []*cdp.Node {
	ctx, cancel := context.WithTimeout(s.Ctx(), 2*time.Second)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(e.Config.DocLinkSelector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(frame), chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil
	}
	return nodes
}

// selectCategory sets the dropdown's value and dispatches a change event so
// the portal's own scripts notice the selection. Setting .value alone does
// not fire change.
func (e *Extractor) selectCategory(s *browser.Session, frame *cdp.Node, value string) error {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	var dropdown []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(e.Config.DropdownSelector, &dropdown, chromedp.ByQuery, chromedp.FromNode(frame)),
		chromedp.SetValue(e.Config.DropdownSelector, value, chromedp.ByQuery, chromedp.FromNode(frame)),
	)
	if err != nil {
		return fmt.Errorf("failed to set dropdown value: %w", err)
	}
	if len(dropdown) == 0 {
		return errors.New("dropdown disappeared before selection")
	}
	if err := chromedp.Run(ctx, dispatchEvent(dropdown[0], "change")); err != nil {
		return fmt.Errorf("failed to dispatch change event: %w", err)
	}
	return nil
}

func (e *Extractor) submit(s *browser.Session, frame *cdp.Node) error {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Click(e.Config.SubmitSelector, chromedp.ByQuery, chromedp.FromNode(frame), chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("submit button not clickable: %w", err)
	}
	return nil
}

// waitForStale waits until the previous result set's first link detaches from
// the DOM. Tolerates both "no previous results" and "old results never left":
// the composite results wait that follows is the real gate.
func (e *Extractor) waitForStale(s *browser.Session, frame *cdp.Node, prev []*cdp.Node) {
	if len(prev) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	first := prev[0]
	_, err := poll.First(ctx, e.PollInterval, func(ctx context.Context) (bool, error) {
		detached := false
		err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := dom.DescribeNode().WithNodeID(first.NodeID).Do(ctx)
			if err != nil {
				// The node is gone; that is exactly what we are waiting for.
				detached = true
			}
			return nil
		}))
		if err != nil {
			if s.Dead() {
				return false, err
			}
			return false, nil
		}
		return detached, nil
	})
	if err != nil {
		e.Logger.Warn("Previous results did not disappear within timeout, DOM may not be fully cleared", "error", err)
	}
}

// waitForResults polls two alternative outcomes: the zero-results marker text
// appears, or result links are present. Neither alone is guaranteed, so the
// first to hold wins.
func (e *Extractor) waitForResults(s *browser.Session, frame *cdp.Node) error {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	zeroResults := func(ctx context.Context) (bool, error) {
		text, err := e.resultText(s, frame)
		if err != nil {
			if s.Dead() {
				return false, err
			}
			return false, nil
		}
		return strings.Contains(text, e.Config.NoResultsText), nil
	}

	linksPresent := func(ctx context.Context) (bool, error) {
		nodes := e.currentLinks(s, frame)
		if s.Dead() {
			return false, s.Ctx().Err()
		}
		return len(nodes) > 0, nil
	}

	_, err := poll.First(ctx, e.PollInterval, zeroResults, linksPresent)
	return err
}

func (e *Extractor) resultText(s *browser.Session, frame *cdp.Node) (string, error) {
	ctx, cancel := context.WithTimeout(s.Ctx(), 2*time.Second)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Text(e.Config.ResultTextSelector, &text, chromedp.ByQuery, chromedp.FromNode(frame), chromedp.AtLeast(0)),
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *Extractor) noResults(s *browser.Session, frame *cdp.Node) bool {
	text, err := e.resultText(s, frame)
	if err != nil {
		return false
	}
	return strings.Contains(text, e.Config.NoResultsText)
}

func (e *Extractor) frameHTML(s *browser.Session, frame *cdp.Node) (string, error) {
	ctx, cancel := context.WithTimeout(s.Ctx(), e.WaitTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery, chromedp.FromNode(frame)),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read frame HTML: %w", err)
	}
	return html, nil
}

func (e *Extractor) screenshot(s *browser.Session, name string) {
	if e.ScreenshotDir == "" {
		return
	}
	path := filepath.Join(e.ScreenshotDir, name)
	if err := s.Screenshot(path); err != nil {
		e.Logger.Warn("Failed to capture diagnostic screenshot", "path", path, "error", err)
		return
	}
	e.Logger.Info("Saved diagnostic screenshot", "path", path)
}

// dispatchEvent fires a DOM event on a node from its own execution context,
// which works for nodes inside cross-origin frames where page-level Evaluate
// cannot reach.
func dispatchEvent(node *cdp.Node, event string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		expr := fmt.Sprintf(
			`function() { this.dispatchEvent(new Event(%q, {bubbles: true})); }`, event)
		_, exc, err := runtime.CallFunctionOn(expr).WithObjectID(obj.ObjectID).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exc
		}
		return nil
	})
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safeName(s string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(s, "_"), "_")
}
