package lexicon

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is one lexicon phrase found in a text. Weight is the signed,
// negation- and modifier-adjusted contribution.
type Match struct {
	Phrase   string
	Weight   float64
	Start    int // byte offset in the lowercased text
	End      int
	Negated  bool
	Modifier float64
}

// matcher finds non-overlapping lexicon phrases in lowercased text.
//
// Phrases are indexed by their first token, so scanning is one map lookup
// per token position instead of a pass over the whole lexicon. At each
// position the longest matching phrase wins; positions are visited left to
// right and a claimed span blocks later overlapping matches.
type matcher struct {
	byFirstToken map[string][]phraseEntry
}

type phraseEntry struct {
	phrase string
	weight float64 // signed base weight
}

func newMatcher(weights map[string]float64) *matcher {
	m := &matcher{byFirstToken: make(map[string][]phraseEntry)}
	for phrase, w := range weights {
		first := phrase
		if i := strings.IndexByte(phrase, ' '); i >= 0 {
			first = phrase[:i]
		}
		m.byFirstToken[first] = append(m.byFirstToken[first], phraseEntry{phrase, w})
	}
	for _, entries := range m.byFirstToken {
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].phrase) != len(entries[j].phrase) {
				return len(entries[i].phrase) > len(entries[j].phrase)
			}
			return entries[i].phrase < entries[j].phrase
		})
	}
	return m
}

// find returns the matches in text (already lowercased), longest phrase
// first at each position, spans never overlapping.
func (m *matcher) find(text string) []Match {
	var matches []Match
	var claimed []Match

	for _, off := range tokenOffsets(text) {
		tok := tokenAt(text, off)
		entries, ok := m.byFirstToken[tok]
		if !ok {
			continue
		}
		for _, e := range entries {
			end := off + len(e.phrase)
			if end > len(text) || text[off:end] != e.phrase {
				continue
			}
			if !boundaryAfter(text, end) {
				continue
			}
			if overlaps(claimed, off, end) {
				continue
			}
			mt := Match{Phrase: e.phrase, Weight: e.weight, Start: off, End: end}
			claimed = append(claimed, mt)
			matches = append(matches, mt)
			break // longest phrase at this position claims it
		}
	}

	return matches
}

func overlaps(claimed []Match, start, end int) bool {
	for _, c := range claimed {
		if start < c.End && c.Start < end {
			return true
		}
	}
	return false
}

// tokenOffsets returns the byte offset of every token start in text.
// Tokens are maximal runs of letters and digits.
func tokenOffsets(text string) []int {
	var offsets []int
	inToken := false
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inToken {
				offsets = append(offsets, i)
				inToken = true
			}
		} else {
			inToken = false
		}
	}
	return offsets
}

// tokenAt returns the token starting at byte offset off.
func tokenAt(text string, off int) string {
	end := off
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	return text[off:end]
}

// boundaryAfter reports whether a match ending at byte offset end is not
// glued to a following letter or digit.
func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// window returns up to n runes of text immediately before byte offset idx.
func window(text string, idx, n int) string {
	start := idx
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:idx]
}
