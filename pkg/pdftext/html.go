package pdftext

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// ExtractHTML pulls readable text out of a saved document page. It is the
// fallback for scanned PDFs that carry no extractable text layer: the portal
// page itself often repeats the document title and metadata.
func ExtractHTML(html, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract readable content: %w", err)
	}

	return strings.TrimSpace(article.TextContent), nil
}
