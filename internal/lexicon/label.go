package lexicon

// Label is the categorical sentiment band for a compound score.
type Label string

const (
	Bearish         Label = "Bearish"
	SomewhatBearish Label = "Somewhat-Bearish"
	Neutral         Label = "Neutral"
	SomewhatBullish Label = "Somewhat-Bullish"
	Bullish         Label = "Bullish"
)

// Label band boundaries on the compound scale.
var Boundaries = []float64{-0.35, -0.15, 0.15, 0.35}

// BandDefinition documents the score-to-label mapping for reports.
const BandDefinition = "x <= -0.35: Bearish; -0.35 < x <= -0.15: Somewhat-Bearish; -0.15 < x < 0.15: Neutral; 0.15 <= x < 0.35: Somewhat-Bullish; x >= 0.35: Bullish"

// LabelFor maps a compound score to its band.
func LabelFor(compound float64) Label {
	switch {
	case compound <= -0.35:
		return Bearish
	case compound <= -0.15:
		return SomewhatBearish
	case compound < 0.15:
		return Neutral
	case compound < 0.35:
		return SomewhatBullish
	default:
		return Bullish
	}
}
