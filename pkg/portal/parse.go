package portal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// docIDPattern captures the numeric identifier out of a document link href.
var docIDPattern = regexp.MustCompile(`id=(\d+)`)

// CollectIDs parses rendered result HTML and returns the document IDs found
// in links matching linkSelector, in document order, duplicates preserved.
// The caller deduplicates through the catalog.
func CollectIDs(html, linkSelector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse result HTML: %w", err)
	}

	var ids []string
	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if m := docIDPattern.FindStringSubmatch(href); m != nil {
			ids = append(ids, m[1])
		}
	})
	return ids, nil
}

// IDFromURL extracts the document identifier from a doc-view URL. Returns ""
// when the URL carries no id parameter.
func IDFromURL(url string) string {
	if m := docIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// DropdownOptions parses a <select> element's outer HTML and returns the
// visible text of each real option, mapped to its value attribute. The
// placeholder "Select..." entry and empty labels are skipped.
func DropdownOptions(selectHTML string) ([]string, map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(selectHTML))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse dropdown HTML: %w", err)
	}

	var labels []string
	values := make(map[string]string)
	doc.Find("option").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		if label == "" || label == "Select..." {
			return
		}
		value, ok := s.Attr("value")
		if !ok {
			value = label
		}
		if _, dup := values[label]; dup {
			return
		}
		labels = append(labels, label)
		values[label] = value
	})
	return labels, values, nil
}
