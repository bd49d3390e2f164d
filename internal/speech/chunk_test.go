package speech

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	got := Split("  A short script. Nothing to cut.  ")
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "A short script. Nothing to cut." {
		t.Errorf("expected trimmed input back, got %q", got[0])
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split("   "); got != nil {
		t.Errorf("expected no chunks for blank input, got %v", got)
	}
}

func TestSplitExactLimit(t *testing.T) {
	text := strings.Repeat("a", MaxChunkLen)
	got := Split(text)
	if len(got) != 1 {
		t.Errorf("text at the limit should stay one chunk, got %d", len(got))
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	// One sentence ends at position 1000, well inside the tolerance
	// window; the cut must land right after it.
	sentence := strings.Repeat("a", 999) + "."
	text := sentence + " " + strings.Repeat("b", 1500)
	got := Split(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != sentence {
		t.Errorf("expected first chunk to end at the sentence boundary, got %d chars", len(got[0]))
	}
	if got[1] != strings.Repeat("b", 1500) {
		t.Errorf("unexpected second chunk: %d chars", len(got[1]))
	}
}

func TestSplitFallsBackToGreedyCut(t *testing.T) {
	// No sentence terminal anywhere: every cut is exactly greedy.
	text := strings.Repeat("a", MaxChunkLen*2+100)
	got := Split(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	if len(got[0]) != MaxChunkLen || len(got[1]) != MaxChunkLen {
		t.Errorf("expected greedy cuts at %d, got %d and %d", MaxChunkLen, len(got[0]), len(got[1]))
	}
	if len(got[2]) != 100 {
		t.Errorf("expected 100-char tail, got %d", len(got[2]))
	}
}

func TestSplitIgnoresTooEarlyBoundary(t *testing.T) {
	// The only sentence terminal sits more than half a chunk behind the
	// greedy cutpoint, so it must be ignored in favor of a greedy cut.
	text := strings.Repeat("a", 800) + ". " + strings.Repeat("b", 2200)
	got := Split(text)
	if len(got[0]) != MaxChunkLen {
		t.Errorf("expected greedy cut at %d, got chunk of %d", MaxChunkLen, len(got[0]))
	}
}

func TestSplitChunksWithinLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 400; i++ {
		sb.WriteString("This is sentence number whatever, padded out to a realistic spoken length for the test. ")
	}
	got := Split(sb.String())
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len([]rune(c)) > MaxChunkLen {
			t.Errorf("chunk %d exceeds limit: %d runes", i, len([]rune(c)))
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d not trimmed", i)
		}
	}
}

func TestSplitReconstructsOriginal(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("Sentence one of the daily news. Another statement follows here! Did something happen? ")
	}
	original := sb.String()
	got := Split(original)

	// Concatenation must reconstruct the text modulo whitespace
	// collapsed at the cut points.
	want := strings.Join(strings.Fields(original), " ")
	joined := strings.Join(strings.Fields(strings.Join(got, " ")), " ")
	if joined != want {
		t.Error("concatenated chunks do not reconstruct the original text")
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Determinism matters for audio ordering. ", 200)
	a := Split(text)
	b := Split(text)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
