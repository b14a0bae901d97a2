package core

import (
	"strings"
)

// ID is a unique identifier for catalog entries.
// It is generated using content-based hashing so that the same entry
// always maps to the same ID across crawls and rebuilds.
type ID uint64

// TagSeparator joins tag lists when items are written to the catalog snapshot.
const TagSeparator = " | "

// CatalogItem is one entry of the assessment catalog.
// Items are immutable once written to a catalog snapshot; the index refers
// to them by row position only.
type CatalogItem struct {
	Name            string   `json:"name"`
	URL             string   `json:"url,omitempty"` // empty for synthetic/placeholder entries
	TestType        string   `json:"test_type,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Category        string   `json:"category,omitempty"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	TextBlob        string   `json:"text_blob"` // the unit that gets embedded
}

// ID returns the content-based identifier for the item.
// The URL identifies an item when present; synthetic entries fall back
// to the name.
func (c *CatalogItem) ID() ID {
	if c.URL != "" {
		return IDFromContent(c.URL)
	}
	return IDFromContent(c.Name)
}

// JoinedTags returns the tags as a single separator-joined string,
// the form used in the catalog snapshot.
func (c *CatalogItem) JoinedTags() string {
	return strings.Join(c.Tags, TagSeparator)
}

// SplitTags parses a separator-joined tag string back into a tag list.
// Empty segments are dropped.
func SplitTags(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, "|")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Candidate is a catalog item with the similarity score attached at
// query time. Candidates are never persisted.
type Candidate struct {
	Item           CatalogItem
	RetrievalScore float32
}

// Recommendation is one entry of the pipeline's final output.
// Synthetic is set when the record did not originate from a confirmed
// catalog hit (no URL).
type Recommendation struct {
	AssessmentName  string `json:"assessment_name"`
	AssessmentURL   string `json:"assessment_url,omitempty"`
	TestType        string `json:"test_type,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	Category        string `json:"category,omitempty"`
	Synthetic       bool   `json:"synthetic"`
}
