// Package models defines configuration and shared data structures for the
// pipeline.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PortalConfig describes the document portal being scraped. Selectors are
// site-specific and expected to change; they are configuration, not code.
type PortalConfig struct {
	URL string `yaml:"url"`
	// Categories to process. Empty means "discover from the dropdown".
	Categories []string `yaml:"categories"`
	// DocViewTemplate builds a document URL from an extracted ID. The literal
	// "{id}" is replaced with the identifier.
	DocViewTemplate string `yaml:"doc_view_template"`

	ModalCloseSelector string `yaml:"modal_close_selector"`
	IframeSelector     string `yaml:"iframe_selector"`
	DropdownSelector   string `yaml:"dropdown_selector"`
	SubmitSelector     string `yaml:"submit_selector"`
	DocLinkSelector    string `yaml:"doc_link_selector"`
	ResultTextSelector string `yaml:"result_text_selector"`
	NoResultsText      string `yaml:"no_results_text"`
}

// DownloadConfig describes the two-click export flow and where files land.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
	// MaxDownloads limits how many links are processed. 0 means all.
	MaxDownloads         int    `yaml:"max_downloads"`
	FirstButtonSelector  string `yaml:"first_button_selector"`
	SecondButtonSelector string `yaml:"second_button_selector"`
}

// GeminiConfig holds the summarization model parameters.
type GeminiConfig struct {
	// APIKey falls back to the GOOGLE_API_KEY environment variable when empty.
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	// SingleCallThreshold is the maximum text length, in characters, sent in
	// one request. Longer documents are chunked and summarized map-then-reduce.
	SingleCallThreshold int `yaml:"single_call_threshold"`
}

// Config is the full runtime configuration. It replaces the compiled-in
// globals of earlier iterations of this tool: everything a stage needs is
// passed in at construction.
type Config struct {
	Portal    PortalConfig   `yaml:"portal"`
	Download  DownloadConfig `yaml:"download"`
	Gemini    GeminiConfig   `yaml:"gemini"`
	Summaries string         `yaml:"summaries_dir"`

	Headless        bool     `yaml:"headless"`
	WaitTimeout     Duration `yaml:"wait_timeout"`
	DownloadTimeout Duration `yaml:"download_timeout"`
	PollInterval    Duration `yaml:"poll_interval"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Portal: PortalConfig{
			URL:                "https://www.stcharlesil.gov/Government/Meetings/Meeting-Minutes-Archive",
			DocViewTemplate:    "https://portal.laserfiche.com/Portal/DocView.aspx?id={id}&repo=r-5c10bb82",
			ModalCloseSelector: "button.prefix-overlay-close.prefix-overlay-action-later",
			IframeSelector:     `iframe[title='portal-laserfiche']`,
			DropdownSelector:   "#MeetingMinutesSearch_Input0",
			SubmitSelector:     "input.CustomSearchSubmitButton",
			DocLinkSelector:    `a[href*='/Portal/DocView.aspx?id=']`,
			ResultTextSelector: "#resultText",
			NoResultsText:      "0 - 0 of 0",
		},
		Download: DownloadConfig{
			Dir:                  "pdfs_to_process",
			FirstButtonSelector:  "#STR_DOWNLOAD_PDF",
			SecondButtonSelector: "#dialogButtons button:first-of-type",
		},
		Gemini: GeminiConfig{
			Model:               "gemini-2.0-flash",
			Temperature:         0.2,
			MaxOutputTokens:     1000,
			SingleCallThreshold: 30000,
		},
		Summaries:       "summaries",
		Headless:        true,
		WaitTimeout:     Duration(20 * time.Second),
		DownloadTimeout: Duration(20 * time.Second),
		PollInterval:    Duration(500 * time.Millisecond),
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error: the defaults describe a working setup.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured key or the GOOGLE_API_KEY environment
// variable. The key itself is never logged.
func (g *GeminiConfig) ResolveAPIKey() string {
	if g.APIKey != "" {
		return g.APIKey
	}
	return os.Getenv("GOOGLE_API_KEY")
}
