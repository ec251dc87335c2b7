package audio

import (
	"fmt"
	"strings"
)

// ExampleFileName returns the audio filename for one example sentence of a
// canonical German word. The name is derived from the word (lower-cased,
// spaces replaced with underscores) plus a 1-based example ordinal, so
// filenames are unique per record and stable across repeated runs for the
// same word.
func ExampleFileName(canonicalWord string, ordinal int) string {
	base := strings.ReplaceAll(strings.ToLower(canonicalWord), " ", "_")
	return fmt.Sprintf("%s_ex%d.mp3", base, ordinal)
}
