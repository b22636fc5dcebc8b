package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Citation references a source document that grounded a generated response.
// Citations are derived from the retrieval results of a single generation
// and are never stored independently.
type Citation struct {
	// Source is the document identifier (path, URI, ...).
	Source string

	// Title is the document title, when known.
	Title string

	// Score is the best relevance score of the chunks drawn from it.
	Score float64
}

// String renders the citation as a markdown-style reference.
func (c Citation) String() string {
	title := c.Title
	if title == "" {
		title = c.Source
	}
	return fmt.Sprintf("[%s](%s)", title, c.Source)
}

// GeneratedResponse is the result of retrieval-augmented generation.
type GeneratedResponse struct {
	// Text is the generated answer.
	Text string

	// Citations lists the documents that grounded the answer,
	// one per contributing document. Empty when retrieval found nothing.
	Citations []Citation

	// Query is the raw query the response was generated for.
	Query string

	// Context is the retrieved context block embedded in the prompt.
	Context string

	// Grounded is false when retrieval returned zero results and the
	// answer was produced without supporting context.
	Grounded bool
}

// FormattedTextWithCitations returns the generated text with a citation
// footer appended. The footer lists sources by descending score, ties
// broken by source identifier, so the output is deterministic.
func (r *GeneratedResponse) FormattedTextWithCitations() string {
	if len(r.Citations) == 0 {
		return r.Text
	}

	citations := make([]Citation, len(r.Citations))
	copy(citations, r.Citations)
	sort.SliceStable(citations, func(i, j int) bool {
		if citations[i].Score != citations[j].Score {
			return citations[i].Score > citations[j].Score
		}
		return citations[i].Source < citations[j].Source
	})

	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteString("\n\nSources:\n")
	for i, c := range citations {
		fmt.Fprintf(&b, "%d. %s (relevance %.2f)\n", i+1, c.String(), c.Score)
	}
	return b.String()
}
