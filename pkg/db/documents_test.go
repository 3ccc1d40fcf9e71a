package db

import "testing"

func TestInsertDocument_DuplicateKeepsRow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("extract", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	first, err := db.InsertDocument(runID, "27355", "City Council", "https://example.com/doc?id=27355")
	if err != nil {
		t.Fatalf("InsertDocument() error = %v", err)
	}
	second, err := db.InsertDocument(runID, "27355", "City Council", "https://example.com/doc?id=27355")
	if err != nil {
		t.Fatalf("InsertDocument() duplicate error = %v", err)
	}
	if first != second {
		t.Errorf("duplicate insert returned new ID %d, want existing %d", second, first)
	}

	docs, err := db.GetRunDocuments(runID)
	if err != nil {
		t.Fatalf("GetRunDocuments() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("got %d documents, want 1", len(docs))
	}
	if docs[0].Status != StatusPending {
		t.Errorf("new document status = %q, want %q", docs[0].Status, StatusPending)
	}
}

func TestMarkDownloadedAndFailed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("download", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	okID, err := db.InsertDocument(runID, "100", "", "https://example.com/doc?id=100")
	if err != nil {
		t.Fatalf("InsertDocument() error = %v", err)
	}
	badID, err := db.InsertDocument(runID, "200", "", "https://example.com/doc?id=200")
	if err != nil {
		t.Fatalf("InsertDocument() error = %v", err)
	}

	if err := db.MarkDownloaded(okID, "/tmp/pdfs/minutes-100.pdf"); err != nil {
		t.Fatalf("MarkDownloaded() error = %v", err)
	}
	if err := db.MarkFailed(badID, "second button never became visible"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}

	docs, err := db.GetRunDocuments(runID)
	if err != nil {
		t.Fatalf("GetRunDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	if docs[0].Status != StatusDownloaded {
		t.Errorf("docs[0].Status = %q, want %q", docs[0].Status, StatusDownloaded)
	}
	if docs[0].FilePath != "/tmp/pdfs/minutes-100.pdf" {
		t.Errorf("docs[0].FilePath = %q", docs[0].FilePath)
	}
	if docs[1].Status != StatusFailed {
		t.Errorf("docs[1].Status = %q, want %q", docs[1].Status, StatusFailed)
	}
	if docs[1].ErrorMessage == "" {
		t.Error("failed document should keep its error message")
	}
}

func TestRecordSummary_Upsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("summarize", "")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := db.RecordSummary(runID, "minutes.pdf", "summaries/minutes_summary.txt", "English", 5000, 800, false); err != nil {
		t.Fatalf("RecordSummary() error = %v", err)
	}
	if err := db.RecordSummary(runID, "minutes.pdf", "summaries/minutes_summary.txt", "English", 5000, 950, false); err != nil {
		t.Fatalf("RecordSummary() upsert error = %v", err)
	}

	summaries, err := db.GetRunSummaries(runID)
	if err != nil {
		t.Fatalf("GetRunSummaries() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].SummaryChars != 950 {
		t.Errorf("SummaryChars = %d, want 950 after upsert", summaries[0].SummaryChars)
	}
	if summaries[0].Failed {
		t.Error("summary should not be marked failed")
	}
}
