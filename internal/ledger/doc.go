// Package ledger tracks which canonical German words have already been
// exported in previous runs. The ledger is a plain text file with one word
// per line; '#'-prefixed lines are run markers or comments and are ignored
// on read. The file is append-only and never rewritten or compacted.
package ledger
