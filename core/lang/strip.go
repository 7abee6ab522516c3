package lang

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/huangsam/estimation-reporter/schema"
)

// Read-only patterns. None of them understand nesting or string literals.
var (
	cStyleCommentRegex = regexp.MustCompile(`/\*[\s\S]*?\*/|//.*`)
	pythonCommentRegex = regexp.MustCompile(`(?m)#.*$|'''[\s\S]*?'''|"""[\s\S]*?"""`)
	hashCommentRegex   = regexp.MustCompile(`#[^\n]*`)
	scillaCommentRegex = regexp.MustCompile(`\(\*.*?\*\)`)
)

// Rust test markers. rustTestMarker opens a test module whose brace-delimited
// body is not counted; rustTestFileMarker makes the whole file test code.
const (
	rustTestMarker     = "#[cfg(test)]"
	rustTestFileMarker = "#![cfg(test)]"
)

// Strip removes comments, and for Rust test modules, from code.
func Strip(language schema.Language, code string) (string, error) {
	switch language {
	case schema.Rust:
		return cStyleCommentRegex.ReplaceAllString(StripRustTests(code), ""), nil
	case schema.Solidity:
		return cStyleCommentRegex.ReplaceAllString(code, ""), nil
	case schema.Python:
		return pythonCommentRegex.ReplaceAllString(code, ""), nil
	case schema.Vyper:
		return hashCommentRegex.ReplaceAllString(code, ""), nil
	case schema.Scilla:
		// (* ... *) is only matched within a single line.
		return scillaCommentRegex.ReplaceAllString(code, ""), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNotImplemented, language)
	}
}

// StripRustTests removes #[cfg(test)] blocks from Rust code.
//
// A file that starts with #![cfg(test)] is entirely test code and yields "".
// Otherwise each marker is removed together with the first brace-delimited
// block after it. If any marker has no balanced block the code is returned
// unchanged. Only the #[cfg(test)] form is recognised.
func StripRustTests(code string) string {
	if isRustTestFile(code) {
		return ""
	}

	var starts []int
	for offset := 0; ; {
		idx := strings.Index(code[offset:], rustTestMarker)
		if idx < 0 {
			break
		}
		starts = append(starts, offset+idx)
		offset += idx + len(rustTestMarker)
	}

	// Remove from the back so earlier offsets stay valid.
	stripped := code
	for i := len(starts) - 1; i >= 0; i-- {
		start := starts[i]
		end := nextBlockEnd(stripped[start:])
		if end < 0 {
			return code
		}
		stripped = stripped[:start] + stripped[start+end:]
	}
	return stripped
}

// isRustTestFile reports whether code opens with #![cfg(test)] after any
// leading whitespace, including vertical tab, Unicode spaces and the
// \x1c-\x1f separators.
func isRustTestFile(code string) bool {
	trimmed := strings.TrimLeftFunc(code, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
	})
	return strings.HasPrefix(trimmed, rustTestFileMarker)
}

// nextBlockEnd returns the offset just past the closing brace of the first
// brace-delimited block in s, or -1 when the braces never balance.
func nextBlockEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}
