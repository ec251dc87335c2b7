package anki

import "time"

// Identity carries the deck and note-type IDs for one run. It is generated
// once by the orchestrator and passed through explicitly, so tests can
// inject fixed IDs and runs stay reproducible.
type Identity struct {
	DeckID  int64
	ModelID int64
}

// NewIdentity derives a fresh identity from the current time.
func NewIdentity() Identity {
	now := time.Now().UnixMilli()
	return Identity{
		DeckID:  now,
		ModelID: now + 1,
	}
}
