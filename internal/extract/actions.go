// Package extract implements the ID extraction stage: drive the portal's
// search form per category and collect document IDs into a catalog file.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avolkov/minutedigest/models"
	"github.com/avolkov/minutedigest/pkg/artifacts"
	"github.com/avolkov/minutedigest/pkg/browser"
	"github.com/avolkov/minutedigest/pkg/db"
	"github.com/avolkov/minutedigest/pkg/manifest"
	"github.com/avolkov/minutedigest/pkg/portal"
)

func ExtractAction(c *cli.Context) error {
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

	runID, err := database.CreateRun("extract", config.Portal.URL)
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(1)
	}

	catalog, err := RunExtraction(context.Background(), logger, config, manager)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	catalogPath := c.String("catalog")
	if err := catalog.Save(catalogPath); err != nil {
		logger.Error("failed to save catalog", "error", err, "path", catalogPath)
		os.Exit(1)
	}

	recordCatalog(logger, database, runID, config, catalog)
	if err := database.FinishRun(runID, len(catalog.Categories()), catalog.TotalIDs(), catalog.TotalIDs(), 0, time.Since(startTime)); err != nil {
		logger.Error("failed to finish run", "error", err)
	}

	m := &manifest.RunManifest{
		RunID:      runID,
		Stage:      "extract",
		PortalURL:  config.Portal.URL,
		DurationMS: time.Since(startTime).Milliseconds(),
		TotalIDs:   catalog.TotalIDs(),
	}
	for _, name := range catalog.Categories() {
		m.Categories = append(m.Categories, manifest.CategorySummary{
			Name:    name,
			IDCount: len(catalog.IDs(name)),
		})
	}
	if _, err := manifest.Write(m, manager.SummariesDir()); err != nil {
		logger.Error("failed to write run manifest", "error", err)
	}

	fmt.Printf("Extracted %d document IDs across %d categories\n", catalog.TotalIDs(), len(catalog.Categories()))
	fmt.Printf("Catalog saved to: %s\n", catalogPath)
	return nil
}

// RunExtraction drives a fresh browser session through the portal and
// returns the collected catalog. Shared with the full-pipeline command.
func RunExtraction(ctx context.Context, logger *slog.Logger, config *models.Config, manager *artifacts.Manager) (*portal.Catalog, error) {
	session, err := browser.NewSession(ctx, browser.Options{
		Headless: config.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	extractor := &portal.Extractor{
		Config:        config.Portal,
		Logger:        logger,
		WaitTimeout:   config.WaitTimeout.Std(),
		PollInterval:  config.PollInterval.Std(),
		ScreenshotDir: manager.DiagnosticsDir(),
	}
	return extractor.Run(session)
}

func recordCatalog(logger *slog.Logger, database *db.DB, runID int64, config *models.Config, catalog *portal.Catalog) {
	for _, name := range catalog.Categories() {
		ids := catalog.IDs(name)
		if err := database.RecordCategory(runID, name, len(ids)); err != nil {
			logger.Error("failed to record category", "error", err, "category", name)
			continue
		}
		for _, id := range ids {
			url := portal.BuildLink(config.Portal.DocViewTemplate, id)
			if _, err := database.InsertDocument(runID, id, name, url); err != nil {
				logger.Error("failed to record document", "error", err, "id", id)
			}
		}
	}
}
