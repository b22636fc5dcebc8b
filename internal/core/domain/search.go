package domain

// Filter restricts a query to entries whose metadata matches every key.
// A slice value matches when the entry's value equals any element.
type Filter map[string]any

// Matches reports whether the given entry metadata satisfies the filter.
func (f Filter) Matches(metadata map[string]any) bool {
	for key, want := range f {
		got, ok := metadata[key]
		if !ok {
			return false
		}

		switch wants := want.(type) {
		case []any:
			if !containsValue(wants, got) {
				return false
			}
		case []string:
			anyWants := make([]any, len(wants))
			for i, w := range wants {
				anyWants[i] = w
			}
			if !containsValue(anyWants, got) {
				return false
			}
		default:
			if got != want {
				return false
			}
		}
	}
	return true
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// SearchResult is a relevance-ranked entry returned by a query.
// Results are ordered by descending cosine similarity; equal scores keep
// insertion order.
type SearchResult struct {
	// Entry is the matched entry.
	Entry Entry

	// Score is the cosine similarity to the query vector.
	Score float64
}

// Source identifies a document that contributed to a retrieval context,
// paired with the best score among its contributing chunks.
type Source struct {
	// DocumentID is the contributing document.
	DocumentID string

	// Title is the document title, when known.
	Title string

	// Score is the highest similarity among this document's chunks.
	Score float64
}
