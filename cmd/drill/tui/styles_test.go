package tui

import "testing"

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
		want   string
	}{
		{"/short", 20, "/short"},
		{"/a/very/long/path/to/somewhere", 12, "...somewhere"},
		{"/abcdef", 3, "/ab"},
		{"/abcdef", 0, ""},
	}

	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.maxLen); got != tt.want {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := padLeft("ab", 5); got != "   ab" {
		t.Errorf("padLeft() = %q", got)
	}
	if got := padLeft("abcdef", 3); got != "abcdef" {
		t.Errorf("padLeft() = %q", got)
	}
}

func TestCenter(t *testing.T) {
	if got := center("ab", 6); got != "  ab  " {
		t.Errorf("center() = %q", got)
	}
}

func TestRepeatChar(t *testing.T) {
	if got := repeatChar('-', 3); got != "---" {
		t.Errorf("repeatChar() = %q", got)
	}
	if got := repeatChar('-', -1); got != "" {
		t.Errorf("repeatChar() = %q", got)
	}
}
