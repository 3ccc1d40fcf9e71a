package summarize

import (
	"strings"
	"testing"
)

func TestChunkRespectsMax(t *testing.T) {
	sentence := strings.Repeat("a", 999) // 1000 with delimiter
	text := strings.Repeat(sentence+".", 75)
	text = strings.TrimSuffix(text, ".")

	chunks := Chunk(text, 30000)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for 75000 chars at max 30000, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 30000 {
			t.Errorf("chunk %d has length %d, want <= 30000", i, len(c))
		}
		if !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d missing trailing delimiter", i)
		}
	}
}

func TestChunkReconstruction(t *testing.T) {
	text := "first sentence. second sentence. third sentence"
	chunks := Chunk(text, 20)
	got := strings.Join(chunks, "")
	if got != text+"." {
		t.Errorf("concatenated chunks = %q, want original text plus trailing delimiter", got)
	}
}

func TestChunkOversizedSentence(t *testing.T) {
	long := strings.Repeat("x", 100)
	chunks := Chunk(long, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected a single oversized chunk, got %d", len(chunks))
	}
	if chunks[0] != long+"." {
		t.Errorf("oversized sentence was altered: %q", chunks[0])
	}
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunks := Chunk("a. b. c", 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a. b. c." {
		t.Errorf("got %q", chunks[0])
	}
}
