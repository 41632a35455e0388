package lexicon

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/quangtran/newsense/internal/logging"
)

// Provider supplies learned keyword weights merged over the built-in
// lexicon. The version must change whenever the weight set changes so the
// scorer knows to rebuild its phrase index.
type Provider interface {
	Learned() (weights map[string]float64, version uint64, err error)
}

// Directional is a secondary classifier giving an independent direction
// signal. ok is false when the classifier sees no direction.
type Directional interface {
	Direction(text string) (compound float64, ok bool)
}

// Result is a scored text.
type Result struct {
	Compound float64
	Label    Label
	Matches  []Match
}

// Scorer scores Vietnamese financial-news text against the lexicon.
//
// Safe for concurrent use. Construct with NewScorer; the zero value is not
// usable.
type Scorer struct {
	learned   Provider
	secondary Directional

	negations []string   // longest first
	modifiers []modEntry // intensifiers before diminishers, longest first within each

	mu             sync.Mutex
	matcher        *matcher
	matcherVersion uint64
	matcherMerged  bool // matcher includes a learned snapshot
}

type modEntry struct {
	word string
	mult float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLearned merges approved learned keywords into the lexicon.
func WithLearned(p Provider) Option {
	return func(s *Scorer) { s.learned = p }
}

// WithSecondary blends an independent directional classifier into the
// compound score.
func WithSecondary(d Directional) Option {
	return func(s *Scorer) { s.secondary = d }
}

// NewScorer builds a scorer over the built-in lexicon.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		negations: sortedByLength(negationMarkers),
		modifiers: modifierEntries(),
		matcher:   newMatcher(baseWeights()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func baseWeights() map[string]float64 {
	weights := make(map[string]float64, len(basePositive)+len(baseNegative))
	for phrase, w := range basePositive {
		weights[phrase] = math.Abs(w)
	}
	for phrase, w := range baseNegative {
		weights[phrase] = -math.Abs(w)
	}
	return weights
}

func sortedByLength(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func modifierEntries() []modEntry {
	collect := func(m map[string]float64) []modEntry {
		entries := make([]modEntry, 0, len(m))
		for w, mult := range m {
			entries = append(entries, modEntry{w, mult})
		}
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].word) != len(entries[j].word) {
				return len(entries[i].word) > len(entries[j].word)
			}
			return entries[i].word < entries[j].word
		})
		return entries
	}
	// Intensifiers take precedence over diminishers when both appear.
	return append(collect(intensifiers), collect(diminishers)...)
}

// Score computes the compound sentiment in [-1, 1] and its label.
//
// Empty or whitespace-only text is Neutral with no matches. Any internal
// failure degrades to Neutral rather than propagating.
func (s *Scorer) Score(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("sentiment scoring panicked", "error", r)
			res = Result{Compound: 0, Label: Neutral}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return Result{Compound: 0, Label: Neutral}
	}

	lower := strings.ToLower(text)
	matches := s.currentMatcher().find(lower)

	var sum float64
	for i := range matches {
		m := &matches[i]
		if neg := s.findNegation(lower, m.Start); neg != "" {
			m.Weight = -m.Weight * 0.6
			m.Negated = true
		}
		m.Modifier = s.findModifier(lower, m.Start)
		m.Weight *= m.Modifier
		sum += m.Weight
	}

	compound := 0.0
	if len(matches) > 0 {
		compound = math.Tanh(sum * 0.6)
	}

	compound = s.blend(text, compound, len(matches))
	compound = clamp(compound, -1, 1)

	return Result{Compound: compound, Label: LabelFor(compound), Matches: matches}
}

// blend folds the secondary classifier's direction into the lexicon score.
//
// Disagreement trusts the lexicon outright. Agreement keeps 70% lexicon,
// 30% classifier. When the lexicon found nothing, the classifier alone
// places the score just inside the matching band.
func (s *Scorer) blend(text string, lex float64, matchCount int) float64 {
	if s.secondary == nil {
		return lex
	}
	sec, ok := s.secondary.Direction(text)
	if !ok {
		return lex
	}
	if matchCount == 0 {
		if sec > 0 {
			return 0.35
		}
		return -0.35
	}
	if lex*sec < 0 {
		return lex
	}
	return 0.7*lex + 0.3*sec
}

// findNegation returns the longest negation marker in the 25 runes before
// idx, or "".
func (s *Scorer) findNegation(lower string, idx int) string {
	prefix := window(lower, idx, 25)
	for _, neg := range s.negations {
		if strings.Contains(prefix, neg) {
			return neg
		}
	}
	return ""
}

// findModifier returns the multiplier for the strongest modifier in the 20
// runes before idx, or 1.
func (s *Scorer) findModifier(lower string, idx int) float64 {
	prefix := window(lower, idx, 20)
	for _, e := range s.modifiers {
		if strings.Contains(prefix, e.word) {
			return e.mult
		}
	}
	return 1.0
}

// currentMatcher returns the phrase index, rebuilt when the learned
// lexicon version has moved.
func (s *Scorer) currentMatcher() *matcher {
	if s.learned == nil {
		return s.matcher
	}

	learned, version, err := s.learned.Learned()
	if err != nil {
		logging.Warn("learned lexicon unavailable, using base", "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.matcher
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matcherMerged && s.matcherVersion == version {
		return s.matcher
	}

	weights := baseWeights()
	for phrase, w := range learned {
		weights[strings.ToLower(phrase)] = w
	}
	s.matcher = newMatcher(weights)
	s.matcherVersion = version
	s.matcherMerged = true
	return s.matcher
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
