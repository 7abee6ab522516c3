package lang

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/estimation-reporter/schema"
)

// isLineBreak reports whether r ends a line. The set matches the universal
// line boundaries, not just '\n'.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// CountLines returns the number of lines in text that hold at least one
// non-whitespace character.
func CountLines(text string) int {
	count := 0
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// CountFile classifies, reads, strips and counts a single file.
func CountFile(path string) (int, error) {
	language, err := FromPath(path)
	if err != nil {
		return 0, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	loc, err := CountContent(language, content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return loc, nil
}

// CountContent validates, strips and counts content already read from disk.
// Line endings are normalized to '\n' before stripping so that end-of-line
// comment patterns stop at a bare '\r'.
func CountContent(language schema.Language, content []byte) (int, error) {
	if !utf8.Valid(content) {
		return 0, ErrDecode
	}
	code, err := Strip(language, normalizeNewlines(string(content)))
	if err != nil {
		return 0, err
	}
	return CountLines(code), nil
}

// normalizeNewlines turns "\r\n" and lone "\r" into "\n".
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
