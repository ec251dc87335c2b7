package enrich

import (
	"errors"
	"strings"
	"testing"
)

const nounJSON = `{
  "german": "Haus",
  "english": "house",
  "word_type": "noun",
  "grammar": {"article": "das", "plural": "Häuser"},
  "sentences": [
    {"example": "Das Haus ist groß.", "translation": "The house is big."},
    {"example": "Wir kaufen ein Haus.", "translation": "We are buying a house."},
    {"example": "Die Häuser sind alt.", "translation": "The houses are old."}
  ]
}`

func TestParseRecord(t *testing.T) {
	rec, err := parseRecord(nounJSON)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}

	if rec.German != "Haus" {
		t.Errorf("German = %q, want %q", rec.German, "Haus")
	}
	if rec.English != "house" {
		t.Errorf("English = %q, want %q", rec.English, "house")
	}
	if rec.WordType != WordTypeNoun {
		t.Errorf("WordType = %q, want %q", rec.WordType, WordTypeNoun)
	}
	if rec.Grammar.Article != "das" || rec.Grammar.Plural != "Häuser" {
		t.Errorf("Grammar = %+v, want article das, plural Häuser", rec.Grammar)
	}
	if len(rec.Examples) != 3 {
		t.Fatalf("Examples count = %d, want 3", len(rec.Examples))
	}
	if rec.Examples[0].German != "Das Haus ist groß." {
		t.Errorf("first example = %q", rec.Examples[0].German)
	}
}

func TestParseRecordWithCodeFence(t *testing.T) {
	fenced := "```json\n" + nounJSON + "\n```"
	rec, err := parseRecord(fenced)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if rec.German != "Haus" {
		t.Errorf("German = %q, want %q", rec.German, "Haus")
	}
}

func TestParseRecordNormalizesUnknownType(t *testing.T) {
	adverbJSON := `{
  "german": "gern",
  "english": "gladly",
  "word_type": "adverb",
  "grammar": {},
  "sentences": [{"example": "Ich lese gern.", "translation": "I like to read."}]
}`
	rec, err := parseRecord(adverbJSON)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if rec.WordType != WordTypeOther {
		t.Errorf("WordType = %q, want %q", rec.WordType, WordTypeOther)
	}
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "the word Haus means house"},
		{"truncated json", `{"german": "Haus", "english":`},
		{"missing canonical word", `{"english": "house", "word_type": "noun", "grammar": {"article": "das"}, "sentences": [{"example": "a", "translation": "b"}]}`},
		{"noun without article", `{"german": "Haus", "english": "house", "word_type": "noun", "grammar": {}, "sentences": [{"example": "a", "translation": "b"}]}`},
		{"no sentences", `{"german": "Haus", "english": "house", "word_type": "noun", "grammar": {"article": "das"}, "sentences": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRecord(tt.content)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("hause", 3)

	for _, want := range []string{
		"'hause'",
		"3 B1-level example sentences",
		"Always output a valid, commonly used German word/phrase",
		`"word_type"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("test-key")

	if c.model == "" {
		t.Error("Expected default model to be set")
	}
	if c.breaker == nil {
		t.Error("Expected circuit breaker to be configured")
	}

	c.SetModel("gpt-4o")
	if c.model != "gpt-4o" {
		t.Errorf("SetModel: model = %q, want gpt-4o", c.model)
	}
	c.SetModel("")
	if c.model != "gpt-4o" {
		t.Error("SetModel with empty string should keep current model")
	}
}
