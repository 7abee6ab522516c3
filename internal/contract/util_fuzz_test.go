package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"src/Token.sol", "*.t.sol"},
		{"test/Token.t.sol", "test/"},
		{"lib/forge-std/src/Test.sol", "lib/"},
		{"src/mocks/Mock.sol", "mocks"},
		{"", ""},
		{"a/b/c/d.rs", "**/tests/**"},
		{"[weird].py", "[,"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(_ *testing.T, path string, excludesStr string) {
		var excludes []string
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}
		_ = ShouldIgnore(path, excludes)
	})
}
