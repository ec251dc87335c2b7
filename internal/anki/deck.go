package anki

import (
	"path/filepath"

	"github.com/avoelk/wortkarten/internal/card"
)

// Deck collects the cards of one run together with the audio files their
// sound tokens reference. Cards keep their insertion order; media files are
// deduplicated by filename.
type Deck struct {
	name      string
	cards     []card.Card
	media     []string
	mediaSeen map[string]struct{}
}

// NewDeck creates an empty deck with the given display name.
func NewDeck(name string) *Deck {
	return &Deck{
		name:      name,
		cards:     make([]card.Card, 0),
		mediaSeen: make(map[string]struct{}),
	}
}

// Name returns the deck display name.
func (d *Deck) Name() string {
	return d.name
}

// AddCard appends a card and registers the audio files backing its examples.
func (d *Deck) AddCard(c card.Card, audioFiles ...string) {
	d.cards = append(d.cards, c)
	for _, f := range audioFiles {
		base := filepath.Base(f)
		if _, ok := d.mediaSeen[base]; ok {
			continue
		}
		d.mediaSeen[base] = struct{}{}
		d.media = append(d.media, f)
	}
}

// Cards returns the cards in insertion order.
func (d *Deck) Cards() []card.Card {
	return d.cards
}

// MediaFiles returns the collected audio file paths in insertion order.
func (d *Deck) MediaFiles() []string {
	return d.media
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}
