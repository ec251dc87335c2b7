package internal

import "unicode"

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if isFilenameRune(r) {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}

// isFilenameRune reports whether a rune may stay in a filename. German
// letters (umlauts, ß) are kept so deck names stay readable.
func isFilenameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
