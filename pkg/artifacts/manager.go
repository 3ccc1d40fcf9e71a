// Package artifacts owns the on-disk layout of the pipeline: the raw PDF
// download directory, the summaries directory, per-document page HTML kept for
// fallback text extraction, and diagnostic screenshots.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DefaultDownloadDir  = "pdfs_to_process"
	DefaultSummariesDir = "summaries"

	// pagesDir holds the rendered doc-view HTML captured alongside each
	// download, keyed by the downloaded file's base name.
	pagesDir       = "pages"
	diagnosticsDir = "diagnostics"

	summarySuffix = "_summary.txt"
)

// Manager handles storage and retrieval of pipeline artifacts.
type Manager struct {
	downloadDir  string
	summariesDir string
}

// NewManager creates the artifact directories if they do not exist.
func NewManager(downloadDir, summariesDir string) (*Manager, error) {
	if downloadDir == "" {
		downloadDir = DefaultDownloadDir
	}
	if summariesDir == "" {
		summariesDir = DefaultSummariesDir
	}
	for _, dir := range []string{
		downloadDir,
		summariesDir,
		filepath.Join(downloadDir, pagesDir),
		filepath.Join(downloadDir, diagnosticsDir),
	} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return &Manager{downloadDir: downloadDir, summariesDir: summariesDir}, nil
}

func (m *Manager) DownloadDir() string {
	return m.downloadDir
}

func (m *Manager) SummariesDir() string {
	return m.summariesDir
}

// DiagnosticsDir is where failure screenshots land.
func (m *Manager) DiagnosticsDir() string {
	return filepath.Join(m.downloadDir, diagnosticsDir)
}

// ListPDFs returns the full paths of PDFs in the download directory, sorted
// by name. Matching is case-insensitive on the extension.
func (m *Manager) ListPDFs() ([]string, error) {
	entries, err := os.ReadDir(m.downloadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}

	var pdfs []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(ent.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(m.downloadDir, ent.Name()))
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// SummaryPath derives the summary file path for a source PDF:
// <summaries>/<base>_summary.txt.
func (m *Manager) SummaryPath(pdfPath string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(m.summariesDir, base+summarySuffix)
}

// HasSummary reports whether a summary already exists for the PDF.
func (m *Manager) HasSummary(pdfPath string) bool {
	_, err := os.Stat(m.SummaryPath(pdfPath))
	return err == nil
}

// WriteSummary stores the summary text for a source PDF.
func (m *Manager) WriteSummary(pdfPath, text string) error {
	path := m.SummaryPath(pdfPath)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// SavePageHTML stores the rendered doc-view HTML captured while downloading
// filePath. The summarizer falls back to it when PDF text extraction comes up
// empty (scanned documents).
func (m *Manager) SavePageHTML(filePath string, html []byte) error {
	path := m.pageHTMLPath(filePath)
	if err := os.WriteFile(path, html, 0600); err != nil {
		return fmt.Errorf("failed to write page HTML: %w", err)
	}
	return nil
}

// PageHTML retrieves the stored doc-view HTML for a downloaded file, if any.
func (m *Manager) PageHTML(filePath string) ([]byte, bool, error) {
	path := m.pageHTMLPath(filePath)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read page HTML: %w", err)
	}
	return data, true, nil
}

func (m *Manager) pageHTMLPath(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return filepath.Join(m.downloadDir, pagesDir, base+".html")
}
