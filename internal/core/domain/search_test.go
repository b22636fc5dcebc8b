package domain

import "testing"

func TestFilter_Matches(t *testing.T) {
	metadata := map[string]any{
		"category": "notes",
		"chunk":    3,
		"author":   "ada",
	}

	t.Run("nil filter matches", func(t *testing.T) {
		var f Filter
		if !f.Matches(metadata) {
			t.Error("expected nil filter to match")
		}
	})

	t.Run("equality match", func(t *testing.T) {
		f := Filter{"category": "notes"}
		if !f.Matches(metadata) {
			t.Error("expected filter to match")
		}
	})

	t.Run("equality mismatch", func(t *testing.T) {
		f := Filter{"category": "mail"}
		if f.Matches(metadata) {
			t.Error("expected filter not to match")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		f := Filter{"missing": "anything"}
		if f.Matches(metadata) {
			t.Error("expected filter not to match when key is absent")
		}
	})

	t.Run("all keys must match", func(t *testing.T) {
		f := Filter{"category": "notes", "author": "grace"}
		if f.Matches(metadata) {
			t.Error("expected filter to require every key")
		}
	})

	t.Run("slice matches any element", func(t *testing.T) {
		f := Filter{"category": []any{"mail", "notes"}}
		if !f.Matches(metadata) {
			t.Error("expected slice filter to match any element")
		}
	})

	t.Run("string slice matches any element", func(t *testing.T) {
		f := Filter{"author": []string{"grace", "ada"}}
		if !f.Matches(metadata) {
			t.Error("expected string slice filter to match any element")
		}
	})

	t.Run("slice with no matching element", func(t *testing.T) {
		f := Filter{"category": []any{"mail", "calendar"}}
		if f.Matches(metadata) {
			t.Error("expected slice filter not to match")
		}
	})
}
