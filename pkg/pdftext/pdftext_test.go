package pdftext

import (
	"strings"
	"testing"
)

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract("does-not-exist.pdf"); err == nil {
		t.Error("Extract() expected error for missing file")
	}
}

func TestExtractHTML(t *testing.T) {
	html := `<html><head><title>Meeting</title></head><body>
		<article>
			<h1>City Council Minutes</h1>
			<p>The council approved the annexation ordinance by a vote of 8 to 1.</p>
			<p>Public comment was heard on the downtown streetscape project.</p>
		</article>
	</body></html>`

	text, err := ExtractHTML(html, "https://example.com/Portal/DocView.aspx?id=27355")
	if err != nil {
		t.Fatalf("ExtractHTML() error = %v", err)
	}
	if !strings.Contains(text, "annexation ordinance") {
		t.Errorf("extracted text missing article body: %q", text)
	}
}

func TestExtractHTMLBadURL(t *testing.T) {
	if _, err := ExtractHTML("<html></html>", "://not-a-url"); err == nil {
		t.Error("ExtractHTML() expected error for malformed URL")
	}
}
