package domain

import (
	"strings"
	"testing"
)

func TestCitation_String(t *testing.T) {
	t.Run("with title", func(t *testing.T) {
		c := Citation{Source: "/notes/go.md", Title: "Go Notes"}
		if got := c.String(); got != "[Go Notes](/notes/go.md)" {
			t.Errorf("unexpected citation: %s", got)
		}
	})

	t.Run("title falls back to source", func(t *testing.T) {
		c := Citation{Source: "/notes/go.md"}
		if got := c.String(); got != "[/notes/go.md](/notes/go.md)" {
			t.Errorf("unexpected citation: %s", got)
		}
	})
}

func TestGeneratedResponse_FormattedTextWithCitations(t *testing.T) {
	t.Run("no citations returns text unchanged", func(t *testing.T) {
		r := &GeneratedResponse{Text: "plain answer"}
		if got := r.FormattedTextWithCitations(); got != "plain answer" {
			t.Errorf("expected text unchanged, got %q", got)
		}
	})

	t.Run("footer sorted by descending score", func(t *testing.T) {
		r := &GeneratedResponse{
			Text: "answer",
			Citations: []Citation{
				{Source: "b.md", Title: "B", Score: 0.50},
				{Source: "a.md", Title: "A", Score: 0.90},
			},
		}

		got := r.FormattedTextWithCitations()
		want := "answer\n\nSources:\n1. [A](a.md) (relevance 0.90)\n2. [B](b.md) (relevance 0.50)\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("ties broken by source", func(t *testing.T) {
		r := &GeneratedResponse{
			Text: "answer",
			Citations: []Citation{
				{Source: "z.md", Score: 0.8},
				{Source: "a.md", Score: 0.8},
			},
		}

		got := r.FormattedTextWithCitations()
		if strings.Index(got, "a.md") > strings.Index(got, "z.md") {
			t.Errorf("expected a.md before z.md on equal scores:\n%s", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		r := &GeneratedResponse{
			Text: "answer",
			Citations: []Citation{
				{Source: "c.md", Score: 0.3},
				{Source: "a.md", Score: 0.9},
				{Source: "b.md", Score: 0.9},
			},
		}
		first := r.FormattedTextWithCitations()
		for i := 0; i < 5; i++ {
			if got := r.FormattedTextWithCitations(); got != first {
				t.Fatal("expected identical output across calls")
			}
		}
	})
}
