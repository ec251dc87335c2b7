// Package card turns one enrichment record plus its synthesized audio files
// into the renderable fields of a flashcard. Assembly is a pure function:
// the same record and the same audio filenames always produce byte-identical
// fields.
package card
