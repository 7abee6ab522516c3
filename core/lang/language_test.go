package lang

import (
	"testing"

	"github.com/huangsam/estimation-reporter/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected schema.Language
	}{
		{".sol", schema.Solidity},
		{".SOL", schema.Solidity},
		{".tsol", schema.Solidity},
		{".rs", schema.Rust},
		{".Rs", schema.Rust},
		{".py", schema.Python},
		{".vy", schema.Vyper},
		{".scilla", schema.Scilla},
		{".Scilla", schema.Scilla},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := FromExtension(tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromExtension_Unsupported(t *testing.T) {
	for _, ext := range []string{".md", ".go", "", ".sol.bak", "sol"} {
		t.Run(ext, func(t *testing.T) {
			got, err := FromExtension(ext)
			assert.ErrorIs(t, err, ErrUnsupportedExtension)
			assert.Empty(t, got)
		})
	}
}

func TestFromExtension_Deterministic(t *testing.T) {
	for _, e := range Extensions() {
		first, err := FromExtension(e.Extension)
		require.NoError(t, err)
		for range 50 {
			again, err := FromExtension(e.Extension)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestFromPath(t *testing.T) {
	got, err := FromPath("contracts/interfaces/IToken.sol")
	require.NoError(t, err)
	assert.Equal(t, schema.Solidity, got)

	_, err = FromPath("README.md")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)

	_, err = FromPath("Makefile")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestExtensions(t *testing.T) {
	exts := Extensions()
	require.Len(t, exts, 6)
	assert.Equal(t, ".py", exts[0].Extension)
	assert.Equal(t, ".vy", exts[len(exts)-1].Extension)

	seen := map[schema.Language]bool{}
	for _, e := range exts {
		seen[e.Language] = true
	}
	for _, language := range schema.AllLanguages {
		assert.True(t, seen[language], "language %s has no extension", language)
	}
}
