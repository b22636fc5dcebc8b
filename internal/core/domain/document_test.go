package domain

import "testing"

func TestDocument_ContentHash(t *testing.T) {
	t.Run("stable for same text", func(t *testing.T) {
		a := &Document{ID: "a", Text: "hello world"}
		b := &Document{ID: "b", Title: "different", Text: "hello world"}
		if a.ContentHash() != b.ContentHash() {
			t.Error("expected identical hashes for identical text")
		}
	})

	t.Run("changes with text", func(t *testing.T) {
		a := &Document{ID: "a", Text: "hello world"}
		b := &Document{ID: "a", Text: "hello world!"}
		if a.ContentHash() == b.ContentHash() {
			t.Error("expected different hashes for different text")
		}
	})

	t.Run("known value", func(t *testing.T) {
		d := &Document{Text: ""}
		// SHA-256 of the empty string.
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := d.ContentHash(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}
