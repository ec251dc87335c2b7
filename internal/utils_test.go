package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Haus", "Haus"},
		{"große Häuser", "große_Häuser"},
		{"straße", "straße"},
		{"word/with\\bad:chars", "word_with_bad_chars"},
		{"mixed-ok_123", "mixed-ok_123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
