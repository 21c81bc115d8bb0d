package types

// SearchResult represents a single lexical search hit
type SearchResult struct {
	Project string
	Title   string
	Content string
	Score   int // Partial-ratio similarity, 0-100
	Excerpt string
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.Project == "" {
		return ErrEmptyProject
	}

	if sr.Title == "" {
		return ErrEmptyTitle
	}

	if sr.Score < 0 || sr.Score > 100 {
		return ErrInvalidScore
	}

	return nil
}

// SemanticResult represents a single vector search hit.
// Lower Distance means more relevant; the exact scale is defined by the
// embedding backend, not by this package.
type SemanticResult struct {
	ID       string // "project/title" composite key
	Content  string
	Metadata map[string]string
	Distance float64
}
