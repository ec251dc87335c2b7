package audio

import "testing"

func TestExampleFileName(t *testing.T) {
	tests := []struct {
		word    string
		ordinal int
		want    string
	}{
		{"Haus", 1, "haus_ex1.mp3"},
		{"Haus", 3, "haus_ex3.mp3"},
		{"guten Morgen", 2, "guten_morgen_ex2.mp3"},
		{"Schlüssel", 1, "schlüssel_ex1.mp3"},
		{"sich freuen auf", 1, "sich_freuen_auf_ex1.mp3"},
	}

	for _, tt := range tests {
		if got := ExampleFileName(tt.word, tt.ordinal); got != tt.want {
			t.Errorf("ExampleFileName(%q, %d) = %q, want %q", tt.word, tt.ordinal, got, tt.want)
		}
	}
}

func TestExampleFileNameStable(t *testing.T) {
	// Repeated runs for the same word must regenerate the same names, so a
	// re-export overwrites instead of colliding ambiguously.
	a := ExampleFileName("Haus", 1)
	b := ExampleFileName("Haus", 1)
	if a != b {
		t.Errorf("Expected stable filename, got %q and %q", a, b)
	}

	if ExampleFileName("Haus", 1) == ExampleFileName("Haus", 2) {
		t.Error("Different ordinals must yield different filenames")
	}
	if ExampleFileName("Haus", 1) == ExampleFileName("Maus", 1) {
		t.Error("Different words must yield different filenames")
	}
}
