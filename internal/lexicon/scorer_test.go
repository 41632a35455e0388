package lexicon

import (
	"errors"
	"math"
	"testing"
)

type stubDirectional struct {
	compound float64
	ok       bool
}

func (s stubDirectional) Direction(string) (float64, bool) { return s.compound, s.ok }

type panicDirectional struct{}

func (panicDirectional) Direction(string) (float64, bool) { panic("boom") }

type fakeProvider struct {
	weights map[string]float64
	version uint64
	err     error
}

func (p *fakeProvider) Learned() (map[string]float64, uint64, error) {
	return p.weights, p.version, p.err
}

func TestScoreBullishTitle(t *testing.T) {
	s := NewScorer()

	res := s.Score("VNM tăng mạnh, lợi nhuận kỷ lục!")
	if res.Compound <= 0.35 {
		t.Errorf("compound = %v, want > 0.35", res.Compound)
	}
	if res.Label != Bullish {
		t.Errorf("label = %v, want %v", res.Label, Bullish)
	}
	if len(res.Matches) < 2 {
		t.Errorf("expected multiple matches, got %+v", res.Matches)
	}
}

func TestScoreBearishTitle(t *testing.T) {
	s := NewScorer()

	res := s.Score("VNM lao dốc không phanh, thua lỗ lớn")
	if res.Compound > -0.35 {
		t.Errorf("compound = %v, want <= -0.35", res.Compound)
	}
	if res.Label != Bearish {
		t.Errorf("label = %v, want %v", res.Label, Bearish)
	}
}

func TestScoreNeutralNoMatches(t *testing.T) {
	s := NewScorer()

	res := s.Score("Công ty tổ chức họp AGM")
	if res.Compound != 0 || res.Label != Neutral {
		t.Errorf("got (%v, %v), want (0, Neutral)", res.Compound, res.Label)
	}
	if len(res.Matches) != 0 {
		t.Errorf("unexpected matches: %+v", res.Matches)
	}
}

func TestScoreEmptyText(t *testing.T) {
	s := NewScorer()

	for _, text := range []string{"", "   ", "\t\n"} {
		res := s.Score(text)
		if res.Compound != 0 || res.Label != Neutral {
			t.Errorf("Score(%q) = (%v, %v), want (0, Neutral)", text, res.Compound, res.Label)
		}
	}
}

func TestScoreNegationFlipsAndDampens(t *testing.T) {
	s := NewScorer()

	res := s.Score("không tăng")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", res.Matches)
	}
	m := res.Matches[0]
	if !m.Negated {
		t.Errorf("match not marked negated: %+v", m)
	}
	// "tăng" carries 0.45; negation flips and dampens to -0.27.
	if math.Abs(m.Weight-(-0.27)) > 1e-9 {
		t.Errorf("weight = %v, want -0.27", m.Weight)
	}
	if res.Compound >= 0 {
		t.Errorf("compound should be negative, got %v", res.Compound)
	}
}

func TestScoreIntensifier(t *testing.T) {
	s := NewScorer()

	res := s.Score("thị trường rất tích cực")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", res.Matches)
	}
	if res.Matches[0].Modifier != 1.4 {
		t.Errorf("modifier = %v, want 1.4", res.Matches[0].Modifier)
	}

	plain := s.Score("thị trường tích cực").Compound
	if res.Compound <= plain {
		t.Errorf("intensified %v should exceed plain %v", res.Compound, plain)
	}
}

func TestScoreDiminisher(t *testing.T) {
	s := NewScorer()

	res := s.Score("nhà đầu tư hơi lo ngại")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", res.Matches)
	}
	if res.Matches[0].Modifier != 0.65 {
		t.Errorf("modifier = %v, want 0.65", res.Matches[0].Modifier)
	}

	plain := s.Score("nhà đầu tư lo ngại").Compound
	if res.Compound >= 0 || plain >= 0 {
		t.Fatalf("both scores should be negative: %v, %v", res.Compound, plain)
	}
	if math.Abs(res.Compound) >= math.Abs(plain) {
		t.Errorf("diminished |%v| should be below plain |%v|", res.Compound, plain)
	}
}

func TestScoreCompoundInRange(t *testing.T) {
	s := NewScorer()

	// Pile on strong phrases; tanh keeps the compound inside (-1, 1).
	res := s.Score("phá sản vỡ nợ khủng hoảng sụp đổ mất vốn lao dốc thua lỗ")
	if res.Compound <= -1 || res.Compound >= 1 {
		t.Errorf("compound out of range: %v", res.Compound)
	}
	if res.Label != Bearish {
		t.Errorf("label = %v, want %v", res.Label, Bearish)
	}
}

func TestBlendAgreement(t *testing.T) {
	s := NewScorer(WithSecondary(stubDirectional{compound: 0.5, ok: true}))

	lex := NewScorer().Score("tăng mạnh").Compound
	got := s.Score("tăng mạnh").Compound
	want := 0.7*lex + 0.3*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("blended = %v, want %v", got, want)
	}
}

func TestBlendDisagreementKeepsLexicon(t *testing.T) {
	s := NewScorer(WithSecondary(stubDirectional{compound: -0.8, ok: true}))

	lex := NewScorer().Score("tăng mạnh").Compound
	if got := s.Score("tăng mạnh").Compound; got != lex {
		t.Errorf("disagreement should keep lexicon score %v, got %v", lex, got)
	}
}

func TestBlendNoLexiconMatches(t *testing.T) {
	pos := NewScorer(WithSecondary(stubDirectional{compound: 0.6, ok: true}))
	if got := pos.Score("Công ty tổ chức họp AGM").Compound; got != 0.35 {
		t.Errorf("compound = %v, want 0.35", got)
	}

	neg := NewScorer(WithSecondary(stubDirectional{compound: -0.6, ok: true}))
	if got := neg.Score("Công ty tổ chức họp AGM").Compound; got != -0.35 {
		t.Errorf("compound = %v, want -0.35", got)
	}
}

func TestBlendSecondaryNoSignal(t *testing.T) {
	s := NewScorer(WithSecondary(stubDirectional{compound: 0.9, ok: false}))

	if got := s.Score("Công ty tổ chức họp AGM").Compound; got != 0 {
		t.Errorf("no-signal secondary should leave lexicon score, got %v", got)
	}
}

func TestScoreRecoversFromSecondaryPanic(t *testing.T) {
	s := NewScorer(WithSecondary(panicDirectional{}))

	res := s.Score("tăng mạnh")
	if res.Compound != 0 || res.Label != Neutral {
		t.Errorf("panic should degrade to Neutral, got (%v, %v)", res.Compound, res.Label)
	}
}

func TestLearnedWeightsMerged(t *testing.T) {
	p := &fakeProvider{weights: map[string]float64{"siêu cổ phiếu": 0.7}, version: 1}
	s := NewScorer(WithLearned(p))

	res := s.Score("siêu cổ phiếu hôm nay")
	if len(res.Matches) != 1 || res.Matches[0].Phrase != "siêu cổ phiếu" {
		t.Fatalf("learned phrase not matched: %+v", res.Matches)
	}
	if res.Compound <= 0 {
		t.Errorf("compound = %v, want positive", res.Compound)
	}
}

func TestLearnedOverridesBaseWeight(t *testing.T) {
	p := &fakeProvider{weights: map[string]float64{"tăng mạnh": 0.2}, version: 1}
	s := NewScorer(WithLearned(p))

	res := s.Score("tăng mạnh")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", res.Matches)
	}
	if res.Matches[0].Weight != 0.2 {
		t.Errorf("weight = %v, want learned override 0.2", res.Matches[0].Weight)
	}
}

func TestMatcherRebuildsOnVersionChange(t *testing.T) {
	p := &fakeProvider{weights: map[string]float64{}, version: 1}
	s := NewScorer(WithLearned(p))
	s.Score("làm nóng chỉ mục")

	// Same version: new weights must not be picked up yet.
	p.weights = map[string]float64{"cổ phiếu vua": 0.6}
	if res := s.Score("cổ phiếu vua trở lại"); len(res.Matches) != 0 {
		t.Fatalf("stale version must keep old index, got %+v", res.Matches)
	}

	p.version = 2
	if res := s.Score("cổ phiếu vua trở lại"); len(res.Matches) != 1 {
		t.Errorf("version bump should rebuild index, got %+v", res.Matches)
	}
}

func TestProviderErrorFallsBackToBase(t *testing.T) {
	p := &fakeProvider{err: errors.New("db closed")}
	s := NewScorer(WithLearned(p))

	res := s.Score("tăng mạnh")
	if len(res.Matches) != 1 || res.Label == Neutral {
		t.Errorf("base lexicon should still apply, got %+v", res)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		compound float64
		want     Label
	}{
		{-0.9, Bearish},
		{-0.35, Bearish},
		{-0.2, SomewhatBearish},
		{-0.15, SomewhatBearish},
		{-0.1, Neutral},
		{0, Neutral},
		{0.14, Neutral},
		{0.15, SomewhatBullish},
		{0.34, SomewhatBullish},
		{0.35, Bullish},
		{0.9, Bullish},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.compound); got != tt.want {
			t.Errorf("LabelFor(%v) = %v, want %v", tt.compound, got, tt.want)
		}
	}
}
