// Package normalize derives canonical lookup keys from model filenames.
//
// Manifest entries and schedule file references are authored independently
// and inconsistently: with or without a path, with or without the .glb
// extension, with or without the project prefix. The normalized key is the
// single join point between the two, so it must tolerate that skew.
package normalize

import (
	"path"
	"strings"
)

// DefaultPrefix is the project-prefix token stripped from filenames when no
// prefix is configured.
const DefaultPrefix = "bsgs"

// Normalizer derives keys with a configurable project prefix.
type Normalizer struct {
	prefix string
}

// New returns a Normalizer stripping the given leading prefix token.
// An empty prefix falls back to DefaultPrefix.
func New(prefix string) Normalizer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Normalizer{prefix: strings.ToLower(prefix)}
}

// Key returns the canonical key for a filename: last path segment, trimmed,
// lowercased, with one trailing ".glb" extension and one leading project
// prefix stripped. Blank input yields "" (no key, no mapping entry).
//
// Key is total and idempotent: Key(Key(x)) == Key(x).
func (n Normalizer) Key(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = path.Base(strings.ReplaceAll(s, "\\", "/"))
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".glb")
	s = strings.TrimPrefix(s, n.prefix)
	return s
}

// Key derives a canonical key using the default project prefix.
func Key(name string) string {
	return New("").Key(name)
}
