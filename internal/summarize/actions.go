// Package summarize implements the summarization stage: extract text from
// each downloaded PDF and write a Gemini-generated summary next to it.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avolkov/minutedigest/models"
	"github.com/avolkov/minutedigest/pkg/artifacts"
	"github.com/avolkov/minutedigest/pkg/db"
	"github.com/avolkov/minutedigest/pkg/manifest"
	"github.com/avolkov/minutedigest/pkg/pdftext"
	summarizer "github.com/avolkov/minutedigest/pkg/summarize"
)

func SummarizeAction(c *cli.Context) error {
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

	runID, err := database.CreateRun("summarize", config.Portal.URL)
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(1)
	}

	entries, err := RunSummaries(context.Background(), logger, config, manager, database, runID, c.Bool("force"))
	if err != nil {
		logger.Error("summarization stage failed", "error", err)
		os.Exit(1)
	}

	var summarized, failed int
	for _, e := range entries {
		if e.Status == "success" {
			summarized++
		} else {
			failed++
		}
	}
	if err := database.FinishRun(runID, 0, len(entries), summarized, failed, time.Since(startTime)); err != nil {
		logger.Error("failed to finish run", "error", err)
	}

	m := &manifest.RunManifest{
		RunID:      runID,
		Stage:      "summarize",
		DurationMS: time.Since(startTime).Milliseconds(),
		Summaries:  entries,
		Summarized: summarized,
		Failed:     failed,
	}
	if _, err := manifest.Write(m, manager.SummariesDir()); err != nil {
		logger.Error("failed to write run manifest", "error", err)
	}

	fmt.Printf("Summarized %d documents (%d failed)\n", summarized, failed)
	fmt.Printf("Summaries saved to: %s\n", manager.SummariesDir())
	return nil
}

// RunSummaries processes every downloaded PDF without an existing summary and
// returns one manifest entry per document. Shared with the full-pipeline
// command. A missing API key is the only fatal error; everything else is
// recorded per document.
func RunSummaries(ctx context.Context, logger *slog.Logger, config *models.Config, manager *artifacts.Manager, database *db.DB, runID int64, force bool) ([]manifest.SummaryEntry, error) {
	pdfs, err := manager.ListPDFs()
	if err != nil {
		return nil, fmt.Errorf("failed to list downloaded PDFs: %w", err)
	}
	if len(pdfs) == 0 {
		fmt.Printf("No PDF files found in %s\n", manager.DownloadDir())
		return nil, nil
	}

	gen, err := summarizer.NewGemini(ctx, config.Gemini)
	if err != nil {
		return nil, err
	}
	s := &summarizer.Summarizer{
		Gen:       gen,
		Logger:    logger,
		Threshold: config.Gemini.SingleCallThreshold,
	}
	detector := summarizer.NewLanguageDetector()

	var entries []manifest.SummaryEntry
	for _, pdfPath := range pdfs {
		if !force && manager.HasSummary(pdfPath) {
			logger.Info("summary exists, skipping", "file", filepath.Base(pdfPath))
			continue
		}
		entries = append(entries, summarizeOne(ctx, logger, config, manager, database, runID, s, detector, pdfPath))
	}
	return entries, nil
}

func summarizeOne(ctx context.Context, logger *slog.Logger, config *models.Config, manager *artifacts.Manager, database *db.DB, runID int64, s *summarizer.Summarizer, detector *summarizer.LanguageDetector, pdfPath string) manifest.SummaryEntry {
	base := filepath.Base(pdfPath)
	entry := manifest.SummaryEntry{SourceFile: base}

	text, err := pdftext.Extract(pdfPath)
	if err != nil {
		logger.Error("failed to read PDF", "file", base, "error", err)
		text = ""
	}
	if text == "" {
		// Scanned document with no text layer: fall back to the portal page
		// HTML saved alongside the download.
		if html, ok, htmlErr := manager.PageHTML(pdfPath); htmlErr == nil && ok {
			if fallback, fbErr := pdftext.ExtractHTML(string(html), config.Portal.URL); fbErr == nil && fallback != "" {
				logger.Info("using portal page text for scanned document", "file", base)
				text = fallback
			}
		}
	}

	language := ""
	if text != "" {
		language = detector.Detect(text)
	}

	summary := s.Summarize(ctx, text)
	failed := summaryFailed(summary)

	output := summary
	if !failed && language != "" && language != "English" {
		output = fmt.Sprintf("Source language: %s\n\n%s", language, summary)
	}

	if err := manager.WriteSummary(pdfPath, output); err != nil {
		logger.Error("failed to write summary", "file", base, "error", err)
		entry.Status = "error"
		return entry
	}

	entry.SummaryPath = manager.SummaryPath(pdfPath)
	entry.Language = language
	entry.SourceChars = len(text)
	entry.SummaryChars = len(output)
	if failed {
		entry.Status = "error"
	} else {
		entry.Status = "success"
	}

	if err := database.RecordSummary(runID, base, entry.SummaryPath, language, len(text), len(output), failed); err != nil {
		logger.Error("failed to record summary", "file", base, "error", err)
	}

	logger.Info("summary written", "file", base, "failed", failed, "chars", len(output))
	return entry
}

// summaryFailed recognizes the failure messages the summarizer embeds in its
// output instead of returning errors.
func summaryFailed(summary string) bool {
	return summary == summarizer.EmptyInputMessage ||
		strings.HasPrefix(summary, "An error occurred")
}
