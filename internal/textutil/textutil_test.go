package textutil

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
		{"Fish &amp; chips", "Fish & chips"},
		{"&lt;not a tag&gt;", "<not a tag>"},
		{"see &lt;code&gt;x&lt;/code&gt; here", "see <code>x</code> here"},
		{"<p>mixed &amp; <b>escaped</b> &lt;markup&gt;</p>", "mixed & escaped <markup>"},
	}
	for _, tt := range tests {
		got := StripHTML(tt.input)
		if got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := Truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	// Multi-byte runes truncate by rune, not byte
	input := "こんにちは世界です"
	got := Truncate(input, 5)
	want := "こん..."
	if got != want {
		t.Errorf("Truncate(%q, 5) = %q, want %q", input, got, want)
	}
}

func TestTitleKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"GPT-5 Launches!", "gpt 5 launches"},
		{"gpt 5 launches", "gpt 5 launches"},
		{"  Spaces   everywhere  ", "spaces everywhere"},
		{"Plain title", "plain title"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		got := TitleKey(tt.input)
		if got != tt.want {
			t.Errorf("TitleKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTitleKeyCollapsesVariants(t *testing.T) {
	a := TitleKey("OpenAI ships GPT: the next step...")
	b := TitleKey("openai ships gpt   the next step")
	if a != b {
		t.Errorf("expected identical keys, got %q vs %q", a, b)
	}
}

func TestTitleKeyIdempotent(t *testing.T) {
	once := TitleKey("Some -- Noisy!! Title??")
	twice := TitleKey(once)
	if once != twice {
		t.Errorf("TitleKey not idempotent: %q vs %q", once, twice)
	}
}
