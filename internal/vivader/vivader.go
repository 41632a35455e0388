// Package vivader is a rule-based sentiment analyzer for Vietnamese
// financial text, in the spirit of VADER (Hutto & Gilbert, 2014) but
// redesigned for Vietnamese syllable structure and the stock-market
// domain: token-based modifier windows, "nhưng/tuy nhiên" contrastive
// weighting, and additive booster scalars.
//
// It serves as an independent directional signal next to the main lexicon
// scorer; the two disagreeing is a strong uncertainty cue.
package vivader

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scores is the polarity breakdown for a text.
//
// Compound is in [-1, 1]; Pos, Neg and Neu are proportion ratios that sum
// to roughly 1.
type Scores struct {
	Compound float64
	Pos      float64
	Neg      float64
	Neu      float64
}

// Analyzer scores Vietnamese financial text. Safe for concurrent use once
// constructed.
type Analyzer struct {
	byFirstToken map[string][]phraseEntry
	negateSorted []string
}

type phraseEntry struct {
	phrase  string
	weight  float64 // signed
	nTokens int
}

// New builds an analyzer over the built-in lexicon. extra holds learned
// terms merged on top; positive weight means bullish, negative bearish.
func New(extra map[string]float64) *Analyzer {
	// Negative first so positive wins on collision.
	combined := make(map[string]float64, len(posLexicon)+len(negLexicon)+len(extra))
	for term, w := range negLexicon {
		combined[term] = -math.Abs(w)
	}
	for term, w := range posLexicon {
		combined[term] = math.Abs(w)
	}
	for term, w := range extra {
		combined[strings.ToLower(term)] = w
	}

	a := &Analyzer{
		byFirstToken: make(map[string][]phraseEntry),
		negateSorted: sortedByLength(negate),
	}
	for phrase, w := range combined {
		first := phrase
		if i := strings.IndexByte(phrase, ' '); i >= 0 {
			first = phrase[:i]
		}
		a.byFirstToken[first] = append(a.byFirstToken[first], phraseEntry{
			phrase:  phrase,
			weight:  w,
			nTokens: len(strings.Fields(phrase)),
		})
	}
	for _, entries := range a.byFirstToken {
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].phrase) != len(entries[j].phrase) {
				return len(entries[i].phrase) > len(entries[j].phrase)
			}
			return entries[i].phrase < entries[j].phrase
		})
	}
	return a
}

// PolarityScores analyzes text and returns the polarity breakdown.
func (a *Analyzer) PolarityScores(text string) Scores {
	if strings.TrimSpace(text) == "" {
		return Scores{Neu: 1}
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Scores{Neu: 1}
	}

	capDiff := hasAllCapsDifferential(tokens)
	sentiments := a.computeValence(tokens, capDiff)
	sentiments = contrastiveCheck(tokens, sentiments)

	var sum float64
	for _, s := range sentiments {
		sum += s
	}
	punct := punctAmplifier(text)
	if sum > 0 {
		sum += punct
	} else if sum < 0 {
		sum -= punct
	}

	compound := normalize(sum)

	var posSum, negSum float64
	var neuCount float64
	for _, s := range sentiments {
		switch {
		case s > 0:
			posSum += s + 1
		case s < 0:
			negSum += s - 1
		default:
			neuCount++
		}
	}
	if posSum > math.Abs(negSum) {
		posSum += punct
	} else if posSum < math.Abs(negSum) {
		negSum -= punct
	}

	total := posSum + math.Abs(negSum) + neuCount
	if total == 0 {
		return Scores{Compound: compound, Neu: 1}
	}
	return Scores{
		Compound: compound,
		Pos:      math.Abs(posSum / total),
		Neg:      math.Abs(negSum / total),
		Neu:      math.Abs(neuCount / total),
	}
}

// Direction reports the classifier's compound score and whether it carries
// a usable direction. Near-zero compounds are treated as no signal.
func (a *Analyzer) Direction(text string) (float64, bool) {
	c := a.PolarityScores(text).Compound
	if math.Abs(c) <= 0.05 {
		return 0, false
	}
	return c, true
}

// computeValence assigns a valence to each token position.
//
// Greedy left-to-right longest match: at each position the longest lexicon
// phrase starting there wins, so "phá sản hoàn toàn" beats "phá sản" at
// the "phá" position. Each match then gets ALL-CAPS amplification,
// booster scalars from up to 3 preceding unmatched tokens, and a negation
// check over a 2-token window that skips tokens inside matched phrases
// (the "không" in "lao dốc không phanh" must not negate what follows).
func (a *Analyzer) computeValence(tokens []string, capDiff bool) []float64 {
	n := len(tokens)
	lower := make([]string, n)
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}

	matched := make([]bool, n)
	valence := make([]float64, n)

	for i := 0; i < n; i++ {
		if matched[i] {
			continue
		}
		entries, ok := a.byFirstToken[lower[i]]
		if !ok {
			continue
		}
		for _, e := range entries {
			if i+e.nTokens > n {
				continue
			}
			if strings.Join(lower[i:i+e.nTokens], " ") != e.phrase {
				continue
			}
			v := e.weight

			if isAllCaps(tokens[i]) && capDiff {
				if v > 0 {
					v += cIncr
				} else {
					v -= cIncr
				}
			}

			for k := 1; k <= 3; k++ {
				prev := i - k
				if prev < 0 {
					break
				}
				if matched[prev] {
					continue
				}
				s := a.boosterScalar(tokens[prev], v, capDiff)
				switch k {
				case 2:
					s *= 0.95
				case 3:
					s *= 0.90
				}
				v += s
			}

			if !a.phraseContainsNegation(e.phrase) {
				neg, double := a.negatedInWindow(lower, i, matched, 2)
				if double {
					v *= 0.5
				} else if neg {
					v *= nScalar
				}
			}

			valence[i] = v
			for j := i; j < i+e.nTokens; j++ {
				matched[j] = true
			}
			break
		}
	}

	return valence
}

// boosterScalar returns the additive scalar when token is a modifier word,
// signed to match the valence it modifies.
func (a *Analyzer) boosterScalar(token string, valence float64, capDiff bool) float64 {
	scalar, ok := boosterDict[strings.ToLower(token)]
	if !ok {
		return 0
	}
	if valence < 0 {
		scalar = -scalar
	}
	if isAllCaps(token) && capDiff {
		if valence > 0 {
			scalar += cIncr
		} else {
			scalar -= cIncr
		}
	}
	return scalar
}

// negatedInWindow checks the window tokens before target for negation,
// skipping tokens already claimed by lexicon phrases.
func (a *Analyzer) negatedInWindow(lower []string, target int, matched []bool, window int) (negated, double bool) {
	if target == 0 {
		return false, false
	}
	start := target - window
	if start < 0 {
		start = 0
	}
	var parts []string
	for i := start; i < target; i++ {
		if !matched[i] {
			parts = append(parts, lower[i])
		}
	}
	windowText := strings.Join(parts, " ")

	for _, pat := range doubleNegate {
		if strings.Contains(windowText, pat) {
			return false, true
		}
	}
	for _, neg := range a.negateSorted {
		if strings.Contains(windowText, neg) {
			return true, false
		}
	}
	return false, false
}

func (a *Analyzer) phraseContainsNegation(phrase string) bool {
	for _, neg := range a.negateSorted {
		if utf8.RuneCountInString(neg) > 2 && strings.Contains(phrase, neg) {
			return true
		}
	}
	return false
}

// contrastiveCheck halves valences before the earliest contrastive
// conjunction and amplifies those after it by 1.5.
func contrastiveCheck(tokens []string, sentiments []float64) []float64 {
	lower := make([]string, len(tokens))
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}

	conjIdx := -1
	for _, phrase := range contrastive {
		words := strings.Fields(phrase)
		for i := 0; i+len(words) <= len(lower); i++ {
			if sliceEqual(lower[i:i+len(words)], words) {
				if conjIdx == -1 || i < conjIdx {
					conjIdx = i
				}
				break
			}
		}
	}
	if conjIdx == -1 {
		return sentiments
	}

	out := make([]float64, len(sentiments))
	for i, s := range sentiments {
		switch {
		case i < conjIdx:
			out[i] = s * 0.5
		case i > conjIdx:
			out[i] = s * 1.5
		default:
			out[i] = s
		}
	}
	return out
}

// punctAmplifier adds emphasis from ! and ?. Vietnamese text uses fewer
// exclamation marks than English, so the scale is lower than VADER's.
func punctAmplifier(text string) float64 {
	ep := float64(min(strings.Count(text, "!"), 4)) * 0.20

	qm := 0.0
	qmCount := strings.Count(text, "?")
	if qmCount > 1 {
		if qmCount <= 3 {
			qm = float64(qmCount) * 0.10
		} else {
			qm = 0.30
		}
	}

	ellipsis := 0.0
	if strings.Contains(text, "...") || strings.Contains(text, "…") {
		ellipsis = -0.08
	}

	return ep + qm + ellipsis
}

// normalize maps a raw valence sum to [-1, 1]: score / sqrt(score² + alpha).
func normalize(score float64) float64 {
	if score == 0 {
		return 0
	}
	v := score / math.Sqrt(score*score+alpha)
	return math.Max(-1, math.Min(1, v))
}

// tokenize splits on whitespace and strips leading/trailing punctuation,
// keeping the raw token when stripping leaves 2 or fewer runes (likely an
// emoticon). Vietnamese uses spaces as syllable boundaries so no in-word
// splitting is needed.
func tokenize(text string) []string {
	var tokens []string
	for _, raw := range strings.Fields(text) {
		stripped := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		tok := stripped
		if utf8.RuneCountInString(stripped) <= 2 {
			tok = raw
		}
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// hasAllCapsDifferential reports whether some but not all tokens are in
// ALL CAPS.
func hasAllCapsDifferential(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	count := 0
	for _, t := range tokens {
		if isAllCaps(t) {
			count++
		}
	}
	return count > 0 && count < len(tokens)
}

// isAllCaps mirrors Python's str.isupper with a length guard: at least one
// cased rune, every cased rune uppercase, and more than one rune total.
func isAllCaps(token string) bool {
	if utf8.RuneCountInString(token) <= 1 {
		return false
	}
	cased := false
	for _, r := range token {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
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

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
