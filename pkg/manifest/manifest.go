package manifest

// RunManifest is the machine-readable report written at the end of a run.
// It gives a lightweight overview of what each stage did without requiring
// anyone to trawl the logs or the database.
type RunManifest struct {
	GeneratedAt string `json:"generated_at"`
	RunID       int64  `json:"run_id,omitempty"`
	Stage       string `json:"stage"`
	PortalURL   string `json:"portal_url,omitempty"`
	DurationMS  int64  `json:"duration_ms"`

	Categories []CategorySummary `json:"categories,omitempty"`
	TotalIDs   int               `json:"total_ids,omitempty"`

	Downloads  []DocumentSummary `json:"downloads,omitempty"`
	Downloaded int               `json:"downloaded"`
	Failed     int               `json:"failed"`

	Summaries  []SummaryEntry `json:"summaries,omitempty"`
	Summarized int            `json:"summarized"`
}

// CategorySummary records one dropdown category and its extracted IDs.
type CategorySummary struct {
	Name    string `json:"name"`
	IDCount int    `json:"id_count"`
}

// DocumentSummary records the outcome of one document download.
type DocumentSummary struct {
	URL          string `json:"url"`
	FilePath     string `json:"file_path,omitempty"`
	Status       string `json:"status"` // "success" or "error"
	ErrorMessage string `json:"error_message,omitempty"`
}

// SummaryEntry records the outcome of summarizing one file.
type SummaryEntry struct {
	SourceFile   string `json:"source_file"`
	SummaryPath  string `json:"summary_path,omitempty"`
	Language     string `json:"language,omitempty"`
	SourceChars  int    `json:"source_chars,omitempty"`
	SummaryChars int    `json:"summary_chars,omitempty"`
	Status       string `json:"status"` // "success" or "error"
}
