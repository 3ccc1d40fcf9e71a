package portal

import "strings"

// IDPlaceholder is the token in the doc-view template replaced by a document
// identifier.
const IDPlaceholder = "{id}"

// BuildLinks expands the catalog into document URLs by template substitution,
// in category-then-ID order. Categories with no IDs contribute nothing. The
// function is pure: it reads the catalog and touches nothing else.
func BuildLinks(c *Catalog, template string) []string {
	var links []string
	for _, category := range c.Categories() {
		for _, id := range c.IDs(category) {
			links = append(links, BuildLink(template, id))
		}
	}
	return links
}

// BuildLink expands the template for a single document identifier.
func BuildLink(template, id string) string {
	return strings.ReplaceAll(template, IDPlaceholder, id)
}
