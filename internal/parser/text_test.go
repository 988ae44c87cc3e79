package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	got, err := p.Parse(strings.NewReader(input), "transcript.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	got, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should collapse to one break.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	got, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Para one.\n\nPara two." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	got, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Para one.\n\nPara two." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename  string
		supported bool
	}{
		{"transcript.txt", true},
		{"transcript.md", true},
		{"transcript.html", true},
		{"transcript.htm", true},
		{"report.pdf", true},
		{"report.docx", true},
		{"REPORT.PDF", true},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if tt.supported && err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", tt.filename, err)
		}
		if !tt.supported && err == nil {
			t.Errorf("ForFile(%q): expected error", tt.filename)
		}
		if got := IsSupportedExtension(tt.filename); got != tt.supported {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tt.filename, got, tt.supported)
		}
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "application/pdf"},
		{"page.html", "text/html"},
		{"notes.md", "text/markdown"},
		{"transcript.txt", "text/plain"},
	}
	for _, tt := range tests {
		if got := MediaType(tt.filename); got != tt.want {
			t.Errorf("MediaType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
