package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNotFound indicates the input file does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrUnreadable indicates the input file exists but could not be read.
	ErrUnreadable = errors.New("input file unreadable")
)

// ReadWordFile reads words from a text file, one word or phrase per line.
// Lines are trimmed; empty lines and lines starting with '#' are skipped.
// The relative order of the remaining lines is preserved.
func ReadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	return words, nil
}
