// Package mentions detects character mentions in scene prose.
// A single Aho-Corasick automaton compiled from character names and
// aliases serves as both dictionary lookup and text scanner, so a
// full-scene scan stays O(n) regardless of cast size.
package mentions

import (
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/goplanner/pkg/characters"
)

// ============================================================================
// String Utilities
// ============================================================================

// NormalizeRaw cleans and lowercases text for matching.
func NormalizeRaw(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	for _, ch := range s {
		c := unicode.ToLower(ch)

		// Curly apostrophe -> straight
		if c == '’' {
			out.WriteRune('\'')
			continue
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(out.String()), " ")
}

// StopWords are surface forms too generic to treat as names on their own.
var StopWords = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"the": true, "of": true, "and": true, "a": true, "an": true,
	"to": true, "in": true, "on": true, "for": true, "at": true, "by": true,
	"is": true, "it": true, "as": true, "be": true, "was": true,
	"are": true, "been": true, "with": true, "from": true, "into": true,
	"that": true, "this": true, "has": true, "have": true, "had": true,
	"his": true, "her": true, "its": true, "their": true,
}

func tokenizeNorm(text string) []string {
	words := strings.Fields(NormalizeRaw(text))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !StopWords[w] {
			result = append(result, w)
		}
	}
	return result
}

// ============================================================================
// Dictionary
// ============================================================================

// Dictionary is a compiled cast of characters ready for scanning.
type Dictionary struct {
	ac ahocorasick.AhoCorasick

	// Pattern index -> character IDs (shared surface forms are possible:
	// two characters both called "Captain")
	patternToIDs [][]string

	// Normalized pattern -> pattern index
	patternIndex map[string]int

	// Character ID -> display name
	idToName map[string]string

	patterns []string
}

// Compile builds a Dictionary from the host's character snapshot.
// Each character contributes its name, explicit aliases, and derived
// short forms (surname, given name) as surface patterns.
func Compile(cast []characters.Character) *Dictionary {
	dict := &Dictionary{
		patternIndex: make(map[string]int),
		idToName:     make(map[string]string),
	}

	for _, c := range cast {
		dict.idToName[c.ID] = c.Name

		surfaces := []string{c.Name}
		surfaces = append(surfaces, c.Aliases...)
		surfaces = append(surfaces, shortForms(c.Name)...)

		for _, surface := range surfaces {
			key := NormalizeRaw(surface)
			if key == "" || StopWords[key] {
				continue
			}

			if idx, exists := dict.patternIndex[key]; exists {
				dict.patternToIDs[idx] = appendUnique(dict.patternToIDs[idx], c.ID)
			} else {
				idx := len(dict.patterns)
				dict.patterns = append(dict.patterns, key)
				dict.patternIndex[key] = idx
				dict.patternToIDs = append(dict.patternToIDs, []string{c.ID})
			}
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	dict.ac = builder.Build(dict.patterns)

	return dict
}

// shortForms derives extra surface patterns from a multi-word name:
// the surname, "given surname" for three-part names, and a long-enough
// given name.
func shortForms(name string) []string {
	tokens := tokenizeNorm(name)
	if len(tokens) <= 1 {
		return nil
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]
	var out []string

	if len(last) >= 3 {
		out = append(out, last)
	}
	if len(tokens) >= 3 && first != last {
		out = append(out, first+" "+last)
	}
	if len(first) >= 4 && first != last {
		out = append(out, first)
	}
	return out
}

func appendUnique(slice []string, item string) []string {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}

// ============================================================================
// Scanning
// ============================================================================

// Mention is one detected character occurrence in text.
type Mention struct {
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	Surface     string `json:"surface"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// foldForScan lowercases text without changing its byte length, so
// match offsets stay valid against the original. Runes whose lowercase
// form encodes to a different width (e.g. U+0130) are left as-is.
func foldForScan(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) == utf8.RuneLen(r) {
			b.WriteRune(l)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Scan finds all character mentions in text. A surface form shared by
// several characters yields one Mention per character at that span.
func (d *Dictionary) Scan(text string) []Mention {
	normalized := foldForScan(text)

	matches := d.ac.FindAll(normalized)
	result := make([]Mention, 0, len(matches))
	for _, m := range matches {
		for _, id := range d.patternToIDs[m.Pattern()] {
			result = append(result, Mention{
				CharacterID: id,
				Name:        d.idToName[id],
				Surface:     text[m.Start():m.End()],
				Start:       m.Start(),
				End:         m.End(),
			})
		}
	}
	return result
}

// MentionedIDs returns the distinct character ids mentioned in text,
// in first-appearance order.
func (d *Dictionary) MentionedIDs(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range d.Scan(text) {
		if !seen[m.CharacterID] {
			seen[m.CharacterID] = true
			out = append(out, m.CharacterID)
		}
	}
	return out
}
