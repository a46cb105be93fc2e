// Package retrieval decides whether a query needs grounding and, when it
// does, produces ranked supporting documents through a deterministic
// fallback ladder over an external vector-search service.
package retrieval

// Document is one retrieved passage. Scores live in [0,1]. Documents
// are not persisted; they exist for a single pipeline invocation.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
}

// Title derives a display title for source attribution: the metadata
// title when present, otherwise the document id.
func (d Document) Title() string {
	if t, ok := d.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return d.ID
}
