package speech

import (
	"strings"
	"unicode"
)

const (
	// MaxChunkLen is the synthesis service's input-length limit.
	MaxChunkLen = 1900

	// boundaryTolerance caps how far behind the greedy cutpoint a
	// sentence boundary may be before we cut mid-sentence instead.
	// Avoids pathologically tiny chunks.
	boundaryTolerance = MaxChunkLen / 2
)

// Split breaks text into chunks of at most MaxChunkLen runes, preferring
// to cut just after a sentence-terminal character. Deterministic; the
// trimmed chunks concatenate back to the original text modulo whitespace
// at the cut points.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= MaxChunkLen {
		return []string{text}
	}

	var chunks []string
	for len(runes) > MaxChunkLen {
		cut := MaxChunkLen
		for i := cut - 1; i >= cut-boundaryTolerance; i-- {
			if isSentenceEnd(runes[i]) {
				cut = i + 1
				break
			}
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
		for len(runes) > 0 && unicode.IsSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}
