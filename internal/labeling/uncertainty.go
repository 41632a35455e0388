// Package labeling surfaces the least trustworthy predictions for human
// review. Uncertainty is a weighted sum of independent [0,1] signals; its
// exact shape defines the priority order of the review queue.
package labeling

import (
	"math"

	"github.com/quangtran/newsense/internal/lexicon"
)

// boundaryRadius is how close a score must sit to a label boundary before
// magnitude uncertainty starts rising.
const boundaryRadius = 0.15

// Assessment is the full uncertainty breakdown for one title.
type Assessment struct {
	LexiconScore         float64
	SecondaryLabel       string // positive or negative; empty when the classifier has no direction
	FinalScore           float64
	FinalLabel           lexicon.Label
	Matches              int
	Uncertainty          float64
	SignalConflict       float64
	MagnitudeUncertainty float64
	MatchSparsity        float64
	FastTextConflict     float64
	fastText             bool
}

// compose applies the signal weights. A fourth signal shifts weight off
// the first three.
func (a *Assessment) compose() {
	if a.fastText {
		a.Uncertainty = math.Min(1,
			0.35*a.SignalConflict+
				0.25*a.MagnitudeUncertainty+
				0.20*a.MatchSparsity+
				0.20*a.FastTextConflict)
		return
	}
	a.Uncertainty = math.Min(1,
		0.45*a.SignalConflict+
			0.30*a.MagnitudeUncertainty+
			0.25*a.MatchSparsity)
}

// conflictScore measures disagreement between the lexicon's direction and
// the secondary classifier. secondary is nil when the classifier saw no
// direction.
func conflictScore(lex float64, secondary *float64) float64 {
	if secondary == nil {
		if math.Abs(lex) < 0.1 {
			return 0.3
		}
		return 0.5
	}

	var lexSign float64
	switch {
	case lex > 0.05:
		lexSign = 1
	case lex < -0.05:
		lexSign = -1
	}
	if lexSign == 0 {
		return 0.4
	}

	secSign := 1.0
	if *secondary < 0 {
		secSign = -1
	}
	if lexSign == secSign {
		return math.Max(0, 0.2-math.Abs(lex)*0.2)
	}
	return math.Min(1, math.Abs(lex)*0.9+0.1)
}

// magnitudeScore rises to 1 as the final score approaches a label
// boundary, where a tiny lexicon change would move the label.
func magnitudeScore(final float64) float64 {
	minDist := math.Inf(1)
	for _, b := range lexicon.Boundaries {
		if d := math.Abs(final - b); d < minDist {
			minDist = d
		}
	}
	if minDist >= boundaryRadius {
		return 0
	}
	return 1 - minDist/boundaryRadius
}

// sparsityScore penalizes scores that rest on few lexicon matches.
func sparsityScore(matches int) float64 {
	switch matches {
	case 0:
		return 1.0
	case 1:
		return 0.7
	case 2:
		return 0.4
	default:
		return 0.1
	}
}

// fasttextConflictScore compares an external classifier's label with the
// final label, scaled by the classifier's own confidence.
func fasttextConflictScore(agrees bool, prob float64) float64 {
	if agrees {
		return math.Max(0, 0.3-prob*0.3)
	}
	return math.Min(1, 0.4+(1-prob)*0.6)
}
