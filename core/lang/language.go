// Package lang classifies source files, strips their non-code text and counts what is left.
package lang

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/estimation-reporter/schema"
)

// Sentinel errors for the text pipeline. Callers match them with errors.Is.
var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrNotImplemented       = errors.New("no filter implemented for language")
	ErrDecode               = errors.New("content is not valid UTF-8")
)

// extensions maps a lower-case file extension to its language.
// Two extensions may alias the same language.
var extensions = map[string]schema.Language{
	".sol":    schema.Solidity,
	".tsol":   schema.Solidity,
	".rs":     schema.Rust,
	".py":     schema.Python,
	".vy":     schema.Vyper,
	".scilla": schema.Scilla,
}

// FromExtension returns the language for a file extension such as ".sol".
// Matching is case-insensitive.
func FromExtension(ext string) (schema.Language, error) {
	language, ok := extensions[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
	return language, nil
}

// FromPath returns the language for the extension of path.
func FromPath(path string) (schema.Language, error) {
	return FromExtension(filepath.Ext(path))
}

// Extension pairs a file extension with the language it maps to.
type Extension struct {
	Extension string          `json:"extension" yaml:"extension"`
	Language  schema.Language `json:"language" yaml:"language"`
}

// Extensions lists the extension table sorted by extension.
func Extensions() []Extension {
	out := make([]Extension, 0, len(extensions))
	for ext, language := range extensions {
		out = append(out, Extension{Extension: ext, Language: language})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}
