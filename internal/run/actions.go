// Package run implements the full pipeline: extract IDs, download PDFs, then
// summarize them, in one invocation.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avolkov/minutedigest/internal/download"
	"github.com/avolkov/minutedigest/internal/extract"
	summarizeverb "github.com/avolkov/minutedigest/internal/summarize"
	"github.com/avolkov/minutedigest/models"
	"github.com/avolkov/minutedigest/pkg/artifacts"
	"github.com/avolkov/minutedigest/pkg/db"
	"github.com/avolkov/minutedigest/pkg/manifest"
	"github.com/avolkov/minutedigest/pkg/portal"
)

func RunAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()
	ctx := context.Background()

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

	runID, err := database.CreateRun("run", config.Portal.URL)
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(1)
	}

	m := &manifest.RunManifest{
		RunID:     runID,
		Stage:     "run",
		PortalURL: config.Portal.URL,
	}

	// Stage 1: extract document IDs.
	logger.Info("starting extraction stage", "portal", config.Portal.URL)
	catalog, err := extract.RunExtraction(ctx, logger, config, manager)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
	if err := catalog.Save(c.String("catalog")); err != nil {
		logger.Error("failed to save catalog", "error", err)
	}
	for _, name := range catalog.Categories() {
		ids := catalog.IDs(name)
		if err := database.RecordCategory(runID, name, len(ids)); err != nil {
			logger.Error("failed to record category", "error", err, "category", name)
		}
		m.Categories = append(m.Categories, manifest.CategorySummary{Name: name, IDCount: len(ids)})
	}
	m.TotalIDs = catalog.TotalIDs()
	fmt.Printf("Extracted %d document IDs across %d categories\n", catalog.TotalIDs(), len(catalog.Categories()))

	links := portal.BuildLinks(catalog, config.Portal.DocViewTemplate)
	if len(links) == 0 {
		fmt.Println("No documents found; nothing to download or summarize")
		finish(logger, database, manager, runID, m, startTime)
		return nil
	}

	// Stage 2: download PDFs.
	logger.Info("starting download stage", "links", len(links))
	results, err := download.RunDownloads(ctx, logger, config, manager, links)
	if err != nil {
		logger.Error("download stage failed", "error", err)
		os.Exit(1)
	}
	for _, r := range results {
		entry := manifest.DocumentSummary{URL: r.URL}
		portalID := portal.IDFromURL(r.URL)
		if portalID == "" {
			portalID = r.URL
		}
		docID, dbErr := database.InsertDocument(runID, portalID, "", r.URL)
		if r.Err != nil {
			m.Failed++
			entry.Status = "error"
			entry.ErrorMessage = r.Err.Error()
			if dbErr == nil {
				_ = database.MarkFailed(docID, r.Err.Error())
			}
		} else {
			m.Downloaded++
			entry.Status = "success"
			entry.FilePath = r.Path
			if dbErr == nil {
				_ = database.MarkDownloaded(docID, r.Path)
			}
		}
		m.Downloads = append(m.Downloads, entry)
	}
	fmt.Printf("Downloaded %d of %d documents (%d failed)\n", m.Downloaded, len(results), m.Failed)

	// Stage 3: summarize.
	logger.Info("starting summarization stage")
	entries, err := summarizeverb.RunSummaries(ctx, logger, config, manager, database, runID, c.Bool("force"))
	if err != nil {
		logger.Error("summarization stage failed", "error", err)
		os.Exit(1)
	}
	m.Summaries = entries
	for _, e := range entries {
		if e.Status == "success" {
			m.Summarized++
		}
	}
	fmt.Printf("Summarized %d documents\n", m.Summarized)

	finish(logger, database, manager, runID, m, startTime)
	return nil
}

func finish(logger *slog.Logger, database *db.DB, manager *artifacts.Manager, runID int64, m *manifest.RunManifest, startTime time.Time) {
	duration := time.Since(startTime)
	m.DurationMS = duration.Milliseconds()
	if err := database.FinishRun(runID, len(m.Categories), m.TotalIDs, m.Downloaded+m.Summarized, m.Failed, duration); err != nil {
		logger.Error("failed to finish run", "error", err)
	}
	if path, err := manifest.Write(m, manager.SummariesDir()); err != nil {
		logger.Error("failed to write run manifest", "error", err)
	} else {
		fmt.Printf("Run manifest saved to: %s\n", path)
	}
}
