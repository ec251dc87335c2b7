package card

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avoelk/wortkarten/internal/enrich"
)

// Card holds the four renderable fields of one flashcard. The note type's
// two templates (German→English and English→German) decide which side is
// the question, so both directions share one Card.
type Card struct {
	German   string
	English  string
	Examples string
	Notes    string
}

// Assemble builds a Card from one record and the audio files for its example
// sentences, one file per example in the same order. Callers guarantee that
// record and audio files line up; a mismatch is a bug upstream, not a
// condition handled here.
func Assemble(rec *enrich.Record, audioFiles []string) Card {
	return Card{
		German:   rec.German,
		English:  rec.English,
		Examples: buildExamples(rec.Examples, audioFiles),
		Notes:    buildNotes(rec),
	}
}

// buildNotes renders the grammar notes line. Only fields the record actually
// carries are included; absent optional fields leave no placeholder behind.
func buildNotes(rec *enrich.Record) string {
	var notes []string

	switch rec.WordType {
	case enrich.WordTypeNoun:
		if rec.Grammar.Article != "" {
			notes = append(notes, fmt.Sprintf("%s %s", rec.Grammar.Article, rec.German))
			if rec.Grammar.Plural != "" {
				notes = append(notes, fmt.Sprintf("Plural: %s", rec.Grammar.Plural))
			}
		}
	case enrich.WordTypeVerb:
		if rec.Grammar.Present != "" {
			notes = append(notes, fmt.Sprintf("Present: %s", rec.Grammar.Present))
		}
		if rec.Grammar.Past != "" {
			notes = append(notes, fmt.Sprintf("Past: %s", rec.Grammar.Past))
		}
		if rec.Grammar.Perfect != "" {
			notes = append(notes, fmt.Sprintf("Perfect: %s", rec.Grammar.Perfect))
		}
	case enrich.WordTypeAdjective:
		if rec.Grammar.AdjectiveForms != "" {
			notes = append(notes, fmt.Sprintf("Forms: %s", rec.Grammar.AdjectiveForms))
		}
	}

	return strings.Join(notes, " | ")
}

// buildExamples renders the numbered example sentences. Each example gets a
// [sound:...] token referencing its audio file by bare filename; the deck
// exporter bundles the media under exactly these names.
func buildExamples(examples []enrich.Example, audioFiles []string) string {
	formatted := make([]string, 0, len(examples))

	for i, ex := range examples {
		audioTag := fmt.Sprintf("[sound:%s]", filepath.Base(audioFiles[i]))
		formatted = append(formatted, fmt.Sprintf("<b>%d. %s</b> %s<br>\n<i>%s</i>",
			i+1, ex.German, audioTag, ex.English))
	}

	return strings.Join(formatted, "<br><br>")
}
