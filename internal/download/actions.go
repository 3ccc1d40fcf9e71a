// Package download implements the PDF download stage: visit each document
// link, click through the two-step export dialog, and wait for the file to
// land on disk.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avolkov/minutedigest/internal/common"
	"github.com/avolkov/minutedigest/models"
	"github.com/avolkov/minutedigest/pkg/artifacts"
	"github.com/avolkov/minutedigest/pkg/browser"
	"github.com/avolkov/minutedigest/pkg/db"
	"github.com/avolkov/minutedigest/pkg/downloader"
	"github.com/avolkov/minutedigest/pkg/manifest"
	"github.com/avolkov/minutedigest/pkg/portal"
)

func DownloadAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if c.IsSet("headless") {
		config.Headless = c.Bool("headless")
	}
	if c.IsSet("max") {
		config.Download.MaxDownloads = c.Int("max")
	}

	links, err := resolveLinks(c, config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(links) == 0 {
		fmt.Println("No document links to download")
		return nil
	}

	manager, err := artifacts.NewManager(config.Download.Dir, config.Summaries)
	if err != nil {
		logger.Error("failed to prepare output directories", "error", err)
		os.Exit(1)
	}

	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	runID, err := database.CreateRun("download", config.Portal.URL)
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(1)
	}

	results, err := RunDownloads(context.Background(), logger, config, manager, links)
	if err != nil {
		logger.Error("download stage failed", "error", err)
		os.Exit(1)
	}

	downloaded, failed := recordResults(logger, database, runID, results)
	if err := database.FinishRun(runID, 0, len(results), downloaded, failed, time.Since(startTime)); err != nil {
		logger.Error("failed to finish run", "error", err)
	}

	m := &manifest.RunManifest{
		RunID:      runID,
		Stage:      "download",
		PortalURL:  config.Portal.URL,
		DurationMS: time.Since(startTime).Milliseconds(),
		Downloaded: downloaded,
		Failed:     failed,
	}
	for _, r := range results {
		m.Downloads = append(m.Downloads, toManifestEntry(r))
	}
	if _, err := manifest.Write(m, manager.SummariesDir()); err != nil {
		logger.Error("failed to write run manifest", "error", err)
	}

	fmt.Printf("Downloaded %d of %d documents (%d failed)\n", downloaded, len(results), failed)
	fmt.Printf("Files saved to: %s\n", manager.DownloadDir())
	return nil
}

// RunDownloads drives a fresh browser session through every link and returns
// the per-link outcomes. Shared with the full-pipeline command.
func RunDownloads(ctx context.Context, logger *slog.Logger, config *models.Config, manager *artifacts.Manager, links []string) ([]downloader.Result, error) {
	if max := config.Download.MaxDownloads; max > 0 && len(links) > max {
		logger.Info("limiting downloads", "total", len(links), "max", max)
		links = links[:max]
	}

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:    config.Headless,
		DownloadDir: manager.DownloadDir(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	orchestrator := &downloader.Orchestrator{
		Logger:          logger,
		Manager:         manager,
		Detector:        downloader.NewDirWatcher(manager.DownloadDir(), config.PollInterval.Std()),
		FirstSelector:   config.Download.FirstButtonSelector,
		SecondSelector:  config.Download.SecondButtonSelector,
		WaitTimeout:     config.WaitTimeout.Std(),
		DownloadTimeout: config.DownloadTimeout.Std(),
	}
	return orchestrator.Run(session, links), nil
}

// resolveLinks picks the link source: an explicit --links list wins over the
// catalog file from a previous extract run.
func resolveLinks(c *cli.Context, config *models.Config) ([]string, error) {
	if c.IsSet("links") {
		raw := strings.Split(c.String("links"), ",")
		sanitized, invalid := common.SanitizeAndValidateURLs(raw)
		if len(invalid) > 0 {
			return nil, fmt.Errorf("%d link(s) are malformed (even after cleanup): %s",
				len(invalid), strings.Join(invalid, ", "))
		}
		return sanitized, nil
	}

	catalogPath := c.String("catalog")
	catalog, err := portal.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w (run the extract stage first or pass --links)", catalogPath, err)
	}
	return portal.BuildLinks(catalog, config.Portal.DocViewTemplate), nil
}

func recordResults(logger *slog.Logger, database *db.DB, runID int64, results []downloader.Result) (downloaded, failed int) {
	for _, r := range results {
		portalID := portal.IDFromURL(r.URL)
		if portalID == "" {
			portalID = r.URL
		}
		docID, err := database.InsertDocument(runID, portalID, "", r.URL)
		if err != nil {
			logger.Error("failed to record document", "error", err, "url", r.URL)
			continue
		}
		if r.Err != nil {
			failed++
			if err := database.MarkFailed(docID, r.Err.Error()); err != nil {
				logger.Error("failed to record failure", "error", err, "url", r.URL)
			}
			continue
		}
		downloaded++
		if err := database.MarkDownloaded(docID, r.Path); err != nil {
			logger.Error("failed to record download", "error", err, "url", r.URL)
		}
	}
	return downloaded, failed
}

func toManifestEntry(r downloader.Result) manifest.DocumentSummary {
	entry := manifest.DocumentSummary{URL: r.URL}
	if r.Err != nil {
		entry.Status = "error"
		entry.ErrorMessage = r.Err.Error()
	} else {
		entry.Status = "success"
		entry.FilePath = r.Path
	}
	return entry
}
