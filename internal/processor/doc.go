// Package processor drives the card generation pipeline: read the word
// list, enrich each word, dedup against the ledger on the canonical German
// form, synthesize example audio, assemble cards, and export the deck.
// Words are processed strictly one at a time in file order; one word's
// failure never corrupts another's output.
package processor
