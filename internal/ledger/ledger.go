package ledger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Ledger answers whether a canonical word was already exported and collects
// the words added during the current run. Membership checks run against an
// in-memory set loaded once; new words become visible to Contains
// immediately, so duplicate inputs within one run also dedup.
type Ledger struct {
	path  string
	seen  map[string]struct{}
	added []string
}

// Load reads the ledger file at path. A missing file is not an error; it
// yields an empty ledger that will create the file on the first append.
func Load(path string) (*Ledger, error) {
	l := &Ledger{
		path: path,
		seen: make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.seen[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	return l, nil
}

// Contains reports whether the canonical word was exported in a previous run
// or added earlier in this one.
func (l *Ledger) Contains(word string) bool {
	_, ok := l.seen[word]
	return ok
}

// Add records a newly exported canonical word in memory. The persisted file
// is only touched by Append at the end of the run.
func (l *Ledger) Add(word string) {
	if l.Contains(word) {
		return
	}
	l.seen[word] = struct{}{}
	l.added = append(l.added, word)
}

// Added returns the words added during this run, in insertion order.
func (l *Ledger) Added() []string {
	return l.added
}

// Len returns the number of known canonical words.
func (l *Ledger) Len() int {
	return len(l.seen)
}

// Append appends this run's new words to the ledger file, preceded by a
// human-readable run marker when one is given. Existing content is never
// rewritten. Appending nothing is a no-op that leaves the file untouched.
func (l *Ledger) Append(marker string) error {
	if len(l.added) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger %s: %w", l.path, err)
	}
	defer f.Close()

	var sb strings.Builder
	if marker != "" {
		fmt.Fprintf(&sb, "# %s\n", marker)
	}
	for _, word := range l.added {
		sb.WriteString(word)
		sb.WriteString("\n")
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to append to ledger %s: %w", l.path, err)
	}

	l.added = nil
	return nil
}
