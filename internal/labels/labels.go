// Package labels canonicalizes free-text class labels.
//
// Grouping always happens on the folded key returned by Normalize. The
// display form is derived from that key, so every spelling of a class ends up
// with the same label no matter which variant was seen first.
package labels

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and case-folds the label.
func Normalize(raw string) string {
	return cases.Fold().String(strings.TrimSpace(raw))
}

// Display returns the title-cased presentation form of a label.
func Display(raw string) string {
	return cases.Title(language.Und).String(Normalize(raw))
}

// Equal reports whether two raw labels share a key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Set tracks the display label for each key seen.
type Set struct {
	display map[string]string
}

func NewSet() *Set {
	return &Set{display: make(map[string]string)}
}

// Add registers raw and returns its key.
func (s *Set) Add(raw string) string {
	key := Normalize(raw)
	if _, ok := s.display[key]; !ok {
		s.display[key] = Display(key)
	}
	return key
}

// Label returns the display form for key.
func (s *Set) Label(key string) string {
	if label, ok := s.display[key]; ok {
		return label
	}
	return Display(key)
}
