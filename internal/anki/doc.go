// Package anki accumulates assembled cards with their audio files and
// exports them as an Anki package (.apkg): a zip containing a SQLite
// collection database, the media blobs, and a media name mapping. The sound
// tokens embedded in card fields resolve against the bundled media by exact
// filename.
package anki
