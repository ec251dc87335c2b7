// Package words reads newline-delimited word list files. Blank lines and
// lines whose first character is '#' are skipped; the order of the
// remaining words is preserved.
package words
