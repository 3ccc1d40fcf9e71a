package db

import (
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestCreateAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("extract", "https://example.gov/minutes")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("CreateRun() returned 0 run ID")
	}

	if err := db.FinishRun(runID, 3, 42, 40, 2, 90*time.Second); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run.Stage != "extract" {
		t.Errorf("run.Stage = %q, want %q", run.Stage, "extract")
	}
	if run.CategoryCount != 3 {
		t.Errorf("run.CategoryCount = %d, want 3", run.CategoryCount)
	}
	if run.DocumentCount != 42 {
		t.Errorf("run.DocumentCount = %d, want 42", run.DocumentCount)
	}
	if run.FailedCount != 2 {
		t.Errorf("run.FailedCount = %d, want 2", run.FailedCount)
	}
	if run.Duration != 90*time.Second {
		t.Errorf("run.Duration = %v, want 90s", run.Duration)
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRunByID(999); err == nil {
		t.Error("GetRunByID() expected error for missing run")
	}
}

func TestListRuns_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, stage := range []string{"extract", "download", "summarize"} {
		if _, err := db.CreateRun(stage, ""); err != nil {
			t.Fatalf("CreateRun(%q) error = %v", stage, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns(2) returned %d runs, want 2", len(runs))
	}
	if runs[0].Stage != "summarize" {
		t.Errorf("most recent run stage = %q, want %q", runs[0].Stage, "summarize")
	}
}

func TestQueryRuns_StageAndFailed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	okID, err := db.CreateRun("download", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	failedID, err := db.CreateRun("download", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := db.FinishRun(failedID, 0, 5, 3, 2, time.Second); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := db.QueryRuns(false, true, "download")
	if err != nil {
		t.Fatalf("QueryRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("QueryRuns(failedOnly) returned %d runs, want 1", len(runs))
	}
	if runs[0].RunID != failedID {
		t.Errorf("QueryRuns() returned run %d, want %d", runs[0].RunID, failedID)
	}
	_ = okID
}

func TestRecordCategory_Upsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("extract", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := db.RecordCategory(runID, "City Council", 10); err != nil {
		t.Fatalf("RecordCategory() error = %v", err)
	}
	if err := db.RecordCategory(runID, "City Council", 12); err != nil {
		t.Fatalf("RecordCategory() second call error = %v", err)
	}
	if err := db.RecordCategory(runID, "Planning Commission", 4); err != nil {
		t.Fatalf("RecordCategory() error = %v", err)
	}

	categories, err := db.GetRunCategories(runID)
	if err != nil {
		t.Fatalf("GetRunCategories() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	if categories[0].Name != "City Council" || categories[0].DocCount != 12 {
		t.Errorf("first category = %+v, want City Council with 12 docs", categories[0])
	}
}
