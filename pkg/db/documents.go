package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Document statuses
const (
	StatusPending    = "pending"
	StatusDownloaded = "downloaded"
	StatusFailed     = "failed"
)

// Document represents one portal document within a run
type Document struct {
	DocumentID   int64
	RunID        int64
	PortalID     string
	Category     string
	URL          string
	FilePath     string
	Status       string
	ErrorMessage string
	DownloadedAt time.Time
}

// InsertDocument records a document discovered during extraction.
// Re-inserting the same portal ID within a run keeps the existing row.
func (db *DB) InsertDocument(runID int64, portalID, category, url string) (int64, error) {
	var existingID int64
	err := db.QueryRow(`
		SELECT document_id FROM documents WHERE run_id = ? AND portal_id = ?
	`, runID, portalID).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check existing document: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO documents (run_id, portal_id, category, url, status)
		VALUES (?, ?, ?, ?, ?)
	`, runID, portalID, category, url, StatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	docID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get document ID: %w", err)
	}
	return docID, nil
}

// MarkDownloaded records a successful download for a document
func (db *DB) MarkDownloaded(documentID int64, filePath string) error {
	_, err := db.Exec(`
		UPDATE documents
		SET status = ?, file_path = ?, error_message = NULL, downloaded_at = CURRENT_TIMESTAMP
		WHERE document_id = ?
	`, StatusDownloaded, filePath, documentID)
	if err != nil {
		return fmt.Errorf("failed to mark document downloaded: %w", err)
	}
	return nil
}

// MarkFailed records a failed download for a document
func (db *DB) MarkFailed(documentID int64, errorMessage string) error {
	_, err := db.Exec(`
		UPDATE documents
		SET status = ?, error_message = ?
		WHERE document_id = ?
	`, StatusFailed, errorMessage, documentID)
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	return nil
}

// GetRunDocuments retrieves all documents for a run in insertion order
func (db *DB) GetRunDocuments(runID int64) ([]Document, error) {
	rows, err := db.Query(`
		SELECT document_id, run_id, portal_id, COALESCE(category, ''), url,
		       COALESCE(file_path, ''), status, COALESCE(error_message, ''),
		       COALESCE(downloaded_at, '')
		FROM documents
		WHERE run_id = ?
		ORDER BY document_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var downloadedAt string
		if err := rows.Scan(&d.DocumentID, &d.RunID, &d.PortalID, &d.Category, &d.URL,
			&d.FilePath, &d.Status, &d.ErrorMessage, &downloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if downloadedAt != "" {
			if t, err := time.Parse("2006-01-02 15:04:05", downloadedAt); err == nil {
				d.DownloadedAt = t
			}
		}
		docs = append(docs, d)
	}

	return docs, nil
}

// Summary represents one summary file written during a run
type Summary struct {
	SummaryID    int64
	RunID        int64
	SourceFile   string
	SummaryPath  string
	Language     string
	SourceChars  int
	SummaryChars int
	Failed       bool
	CreatedAt    time.Time
}

// RecordSummary stores the outcome of summarizing one document.
// Re-recording the same source file within a run replaces the previous row.
func (db *DB) RecordSummary(runID int64, sourceFile, summaryPath, language string, sourceChars, summaryChars int, failed bool) error {
	_, err := db.Exec(`
		INSERT INTO summaries (run_id, source_file, summary_path, language, source_chars, summary_chars, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, source_file) DO UPDATE SET
			summary_path = excluded.summary_path,
			language = excluded.language,
			source_chars = excluded.source_chars,
			summary_chars = excluded.summary_chars,
			failed = excluded.failed
	`, runID, sourceFile, summaryPath, language, sourceChars, summaryChars, failed)
	if err != nil {
		return fmt.Errorf("failed to record summary: %w", err)
	}
	return nil
}

// GetRunSummaries retrieves all summaries for a run in insertion order
func (db *DB) GetRunSummaries(runID int64) ([]Summary, error) {
	rows, err := db.Query(`
		SELECT summary_id, run_id, source_file, summary_path, COALESCE(language, ''),
		       source_chars, summary_chars, failed, created_at
		FROM summaries
		WHERE run_id = ?
		ORDER BY summary_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run summaries: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.SummaryID, &s.RunID, &s.SourceFile, &s.SummaryPath,
			&s.Language, &s.SourceChars, &s.SummaryChars, &s.Failed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}
