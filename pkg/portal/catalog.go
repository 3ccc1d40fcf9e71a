// Package portal drives the document portal's search UI and turns rendered
// result pages into a catalog of document identifiers.
package portal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog maps category labels to the unique document IDs found under them.
// Category order and per-category ID order are both preserved: link generation
// depends on deterministic category-then-ID ordering. IDs are deduplicated
// within a category only; the same document can legitimately appear under
// several categories.
type Catalog struct {
	categories []string
	ids        map[string][]string
	seen       map[string]map[string]struct{}
}

func NewCatalog() *Catalog {
	return &Catalog{
		ids:  make(map[string][]string),
		seen: make(map[string]map[string]struct{}),
	}
}

// EnsureCategory registers a category, possibly with no IDs. A category that
// produced zero results still appears in the catalog.
func (c *Catalog) EnsureCategory(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}
	c.categories = append(c.categories, name)
	c.seen[name] = make(map[string]struct{})
}

// Add records an ID under a category. It reports whether the ID was new for
// that category.
func (c *Catalog) Add(category, id string) bool {
	c.EnsureCategory(category)
	if _, dup := c.seen[category][id]; dup {
		return false
	}
	c.seen[category][id] = struct{}{}
	c.ids[category] = append(c.ids[category], id)
	return true
}

// Categories returns category labels in insertion order.
func (c *Catalog) Categories() []string {
	return c.categories
}

// IDs returns the unique IDs for a category in discovery order.
func (c *Catalog) IDs(category string) []string {
	return c.ids[category]
}

// TotalIDs counts IDs across all categories.
func (c *Catalog) TotalIDs() int {
	n := 0
	for _, ids := range c.ids {
		n += len(ids)
	}
	return n
}

type catalogEntry struct {
	Category string   `yaml:"category"`
	IDs      []string `yaml:"ids"`
}

// Save writes the catalog as YAML, one entry per category in order.
func (c *Catalog) Save(path string) error {
	entries := make([]catalogEntry, 0, len(c.categories))
	for _, cat := range c.categories {
		entries = append(entries, catalogEntry{Category: cat, IDs: c.ids[cat]})
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a catalog written by Save.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var entries []catalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := NewCatalog()
	for _, e := range entries {
		c.EnsureCategory(e.Category)
		for _, id := range e.IDs {
			c.Add(e.Category, id)
		}
	}
	return c, nil
}
