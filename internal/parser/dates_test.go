package parser

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"phonepe style", "Sep 06, 2025", "2025-09-06"},
		{"gpay style", "06 Sep, 2025", "2025-09-06"},
		{"no comma", "6 Sep 2025", "2025-09-06"},
		{"full month name", "27 September, 2025", "2025-09-27"},
		{"four letter month", "Sept 27, 2025", "2025-09-27"},
		{"trailing clock time", "Sept 27, 2025, 8:19 pm", "2025-09-27"},
		{"already canonical", "2025-09-06", "2025-09-06"},
		{"slash format", "2025/09/06", "2025-09-06"},
		{"extra whitespace", "  Sep  06,  2025 ", "2025-09-06"},
		{"unparseable", "yesterday evening", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.expected {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
