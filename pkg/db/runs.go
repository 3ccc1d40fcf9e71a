package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Run represents one pipeline invocation
type Run struct {
	RunID         int64
	CreatedAt     time.Time
	Stage         string
	PortalURL     string
	CategoryCount int
	DocumentCount int
	SuccessCount  int
	FailedCount   int
	Duration      time.Duration
}

// CreateRun records the start of a pipeline stage and returns its ID
func (db *DB) CreateRun(stage, portalURL string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (stage, portal_url)
		VALUES (?, ?)
	`, stage, portalURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun updates the counters of a run once its stage completes
func (db *DB) FinishRun(runID int64, categoryCount, documentCount, successCount, failedCount int, duration time.Duration) error {
	_, err := db.Exec(`
		UPDATE runs
		SET category_count = ?, document_count = ?, success_count = ?, failed_count = ?, duration_ms = ?
		WHERE run_id = ?
	`, categoryCount, documentCount, successCount, failedCount, duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var run Run
	var durationMS int64
	err := db.QueryRow(`
		SELECT run_id, created_at, stage, COALESCE(portal_url, ''),
		       category_count, document_count, success_count, failed_count, duration_ms
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&run.RunID,
		&run.CreatedAt,
		&run.Stage,
		&run.PortalURL,
		&run.CategoryCount,
		&run.DocumentCount,
		&run.SuccessCount,
		&run.FailedCount,
		&durationMS,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, created_at, stage, COALESCE(portal_url, ''),
		       category_count, document_count, success_count, failed_count, duration_ms
		FROM runs
		ORDER BY created_at DESC, run_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.Stage, &r.PortalURL,
			&r.CategoryCount, &r.DocumentCount, &r.SuccessCount, &r.FailedCount, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}

	return runs, nil
}

// QueryRuns filters runs based on criteria
func (db *DB) QueryRuns(todayOnly bool, failedOnly bool, stage string) ([]Run, error) {
	query := `
		SELECT run_id, created_at, stage, COALESCE(portal_url, ''),
		       category_count, document_count, success_count, failed_count, duration_ms
		FROM runs
	`

	var conditions []string
	var args []interface{}

	if todayOnly {
		conditions = append(conditions, "DATE(created_at) = DATE('now')")
	}
	if failedOnly {
		conditions = append(conditions, "failed_count > 0")
	}
	if stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, stage)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, run_id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.Stage, &r.PortalURL,
			&r.CategoryCount, &r.DocumentCount, &r.SuccessCount, &r.FailedCount, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}

	return runs, nil
}

// RecordCategory stores a processed category and its document count
func (db *DB) RecordCategory(runID int64, name string, docCount int) error {
	_, err := db.Exec(`
		INSERT INTO categories (run_id, name, doc_count)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, name) DO UPDATE SET doc_count = excluded.doc_count
	`, runID, name, docCount)
	if err != nil {
		return fmt.Errorf("failed to record category: %w", err)
	}
	return nil
}

// Category represents one dropdown category processed within a run
type Category struct {
	Name     string
	DocCount int
}

// GetRunCategories retrieves the categories of a run in insertion order
func (db *DB) GetRunCategories(runID int64) ([]Category, error) {
	rows, err := db.Query(`
		SELECT name, doc_count
		FROM categories
		WHERE run_id = ?
		ORDER BY category_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.DocCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, nil
}
