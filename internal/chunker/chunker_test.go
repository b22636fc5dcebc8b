package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		c, err := New(100, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Size() != 100 {
			t.Errorf("expected size 100, got %d", c.Size())
		}
		if c.Overlap() != 20 {
			t.Errorf("expected overlap 20, got %d", c.Overlap())
		}
	})

	t.Run("zero size", func(t *testing.T) {
		_, err := New(0, 20)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("zero overlap", func(t *testing.T) {
		_, err := New(100, 0)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("overlap equals size", func(t *testing.T) {
		_, err := New(100, 100)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("overlap exceeds size", func(t *testing.T) {
		_, err := New(100, 150)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})
}

func TestSplit_EmptyText(t *testing.T) {
	c, _ := New(100, 20)
	chunks := c.Split("doc", "")
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_SmallText(t *testing.T) {
	c, _ := New(100, 20)
	text := "This is a small piece of content."

	chunks := c.Split("doc", text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected chunk text to match input")
	}
	if chunks[0].DocumentID != "doc" {
		t.Errorf("expected DocumentID 'doc', got %q", chunks[0].DocumentID)
	}
	if chunks[0].Start != 0 || chunks[0].End != len([]rune(text)) {
		t.Errorf("expected span [0,%d), got [%d,%d)", len([]rune(text)), chunks[0].Start, chunks[0].End)
	}
}

func TestSplit_ExactOverlap(t *testing.T) {
	c, _ := New(20, 5)
	text := strings.Repeat("abcde", 10) // 50 runes

	chunks := c.Split("doc", text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		curr := []rune(chunks[i].Text)

		tail := string(prev[len(prev)-5:])
		head := string(curr[:5])
		if tail != head {
			t.Errorf("chunk %d: expected overlap %q, got head %q", i, tail, head)
		}
		if chunks[i].Start != chunks[i-1].Start+15 {
			t.Errorf("chunk %d: expected start %d, got %d", i, chunks[i-1].Start+15, chunks[i].Start)
		}
	}
}

func TestSplit_CoversAllText(t *testing.T) {
	c, _ := New(20, 5)
	text := strings.Repeat("0123456789", 7) // 70 runes, not a multiple of the step

	chunks := c.Split("doc", text)
	runes := []rune(text)

	if chunks[0].Start != 0 {
		t.Errorf("expected first chunk to start at 0, got %d", chunks[0].Start)
	}
	last := chunks[len(chunks)-1]
	if last.End != len(runes) {
		t.Errorf("expected last chunk to end at %d, got %d", len(runes), last.End)
	}
	for i := range chunks {
		if chunks[i].Index != i {
			t.Errorf("expected chunk %d to carry index %d, got %d", i, i, chunks[i].Index)
		}
		if chunks[i].Text != string(runes[chunks[i].Start:chunks[i].End]) {
			t.Errorf("chunk %d text does not match its span", i)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c, _ := New(30, 10)
	text := strings.Repeat("the quick brown fox ", 20)

	first := c.Split("doc", text)
	second := c.Split("doc", text)

	if len(first) != len(second) {
		t.Fatalf("expected same chunk count, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_MultibyteRunes(t *testing.T) {
	c, _ := New(4, 1)
	text := "日本語のテキストです" // 10 runes

	chunks := c.Split("doc", text)
	for i := range chunks {
		n := len([]rune(chunks[i].Text))
		if n > 4 {
			t.Errorf("chunk %d has %d runes, expected at most 4", i, n)
		}
	}
	last := chunks[len(chunks)-1]
	if last.End != 10 {
		t.Errorf("expected last chunk to end at rune 10, got %d", last.End)
	}
}
