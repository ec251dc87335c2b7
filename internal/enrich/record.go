package enrich

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WordType classifies the enriched word.
type WordType string

const (
	WordTypeNoun      WordType = "noun"
	WordTypeVerb      WordType = "verb"
	WordTypeAdjective WordType = "adjective"
	WordTypeOther     WordType = "other"
)

// NormalizeWordType maps the free-form type string returned by the service
// onto the known word types. Anything that is not a noun, verb or adjective
// (adverbs, prepositions, ...) is treated as "other".
func NormalizeWordType(t WordType) WordType {
	normalized := WordType(strings.ToLower(strings.TrimSpace(string(t))))
	switch normalized {
	case WordTypeNoun, WordTypeVerb, WordTypeAdjective:
		return normalized
	default:
		return WordTypeOther
	}
}

// Example is one German example sentence with its English translation.
type Example struct {
	German  string `json:"example"`
	English string `json:"translation"`
}

// Validate checks that both sides of the example are present.
func (e Example) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.German, validation.Required),
		validation.Field(&e.English, validation.Required),
	)
}

// Grammar holds type-specific grammar fields. All fields are optional at the
// data level; which ones are required depends on the declared word type.
type Grammar struct {
	Article        string `json:"article,omitempty"`
	Plural         string `json:"plural,omitempty"`
	Present        string `json:"present,omitempty"`
	Past           string `json:"past,omitempty"`
	Perfect        string `json:"perfect,omitempty"`
	AdjectiveForms string `json:"adjective_forms,omitempty"`
}

// Record is the structured enrichment result for one input word. German is
// the corrected canonical form and serves as the dedup key. A Record is
// immutable once returned by the client.
type Record struct {
	German   string    `json:"german"`
	English  string    `json:"english"`
	WordType WordType  `json:"word_type"`
	Grammar  Grammar   `json:"grammar"`
	Examples []Example `json:"sentences"`
}

// Validate checks the record for the fields every word type needs, then the
// grammar fields required by the declared word type. Optional grammar fields
// (plural, past, perfect) are not enforced.
func (r *Record) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.German, validation.Required),
		validation.Field(&r.English, validation.Required),
		validation.Field(&r.WordType, validation.Required, validation.In(
			WordTypeNoun, WordTypeVerb, WordTypeAdjective, WordTypeOther)),
		validation.Field(&r.Examples, validation.Required),
	)
	if err != nil {
		return err
	}

	for i, ex := range r.Examples {
		if err := ex.Validate(); err != nil {
			return fmt.Errorf("sentence %d: %w", i+1, err)
		}
	}

	switch r.WordType {
	case WordTypeNoun:
		if r.Grammar.Article == "" {
			return fmt.Errorf("article is required for nouns")
		}
	case WordTypeVerb:
		if r.Grammar.Present == "" {
			return fmt.Errorf("present tense is required for verbs")
		}
	case WordTypeAdjective:
		if r.Grammar.AdjectiveForms == "" {
			return fmt.Errorf("forms are required for adjectives")
		}
	}

	return nil
}
