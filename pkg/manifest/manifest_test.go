package manifest

import (
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()

	m := &RunManifest{
		RunID:     7,
		Stage:     "run",
		PortalURL: "https://example.gov/minutes",
		Categories: []CategorySummary{
			{Name: "City Council", IDCount: 12},
			{Name: "Planning Commission", IDCount: 0},
		},
		TotalIDs: 12,
		Downloads: []DocumentSummary{
			{URL: "https://example.com/doc?id=1", FilePath: "pdfs/minutes.pdf", Status: "success"},
			{URL: "https://example.com/doc?id=2", Status: "error", ErrorMessage: "download timed out"},
		},
		Downloaded: 1,
		Failed:     1,
	}

	path, err := Write(m, dir)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if path == "" {
		t.Fatal("Write() returned empty path")
	}
	if m.GeneratedAt == "" {
		t.Error("Write() should stamp GeneratedAt")
	}

	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.RunID != 7 || got.Stage != "run" {
		t.Errorf("round trip lost run identity: %+v", got)
	}
	if len(got.Categories) != 2 || got.Categories[0].Name != "City Council" {
		t.Errorf("round trip lost categories: %+v", got.Categories)
	}
	if got.Downloads[1].ErrorMessage != "download timed out" {
		t.Errorf("round trip lost error message: %+v", got.Downloads[1])
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); err == nil {
		t.Error("Read() expected error for missing manifest")
	}
}
