package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quangtran/newsense/internal/brain"
	"github.com/quangtran/newsense/internal/labeling"
	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/store"
)

type fakeProvider struct {
	available bool
	content   string
	err       error
	prompts   []string
}

var _ brain.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string    { return "fake" }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Generate(ctx context.Context, req brain.Request) (brain.Response, error) {
	f.prompts = append(f.prompts, req.UserPrompt)
	if f.err != nil {
		return brain.Response{}, f.err
	}
	return brain.Response{Content: f.content, Model: "fake-model"}, nil
}

// fencedVerdicts wraps a canned two-item verdict array in a markdown code
// fence, the way chat models tend to return JSON.
const fencedVerdicts = "```json\n" +
	`[{"idx": 1, "score": -0.6, "label": "Negative", "confidence": 0.9, "reasoning": "giảm sâu"},
 {"idx": 2, "score": 0.0, "label": "Neutral", "confidence": 0.4, "reasoning": "không rõ hướng"}]` +
	"\n```"

type evalFixture struct {
	st       *store.Store
	lm       *learning.Manager
	provider *fakeProvider
	eval     *Evaluator
}

// newEvalFixture seeds three articles crawled today and builds the labeling
// queue over them, so two land above the default evaluation threshold.
func newEvalFixture(t *testing.T) *evalFixture {
	t.Helper()
	st := newTestStore(t)
	today := time.Now().Format("2006-01-02")
	seedUnscored(t, st, today,
		"Cổ phiếu giảm",
		"Công ty tổ chức họp AGM",
		"VNM tăng mạnh, lợi nhuận kỷ lục!",
	)

	lm, err := learning.New(st.DB())
	if err != nil {
		t.Fatalf("learning.New: %v", err)
	}
	engine, err := labeling.NewEngine(st.DB(), lexicon.NewScorer(), lm)
	if err != nil {
		t.Fatalf("labeling.NewEngine: %v", err)
	}
	if _, err := engine.BuildDailyQueue(today, 10); err != nil {
		t.Fatalf("BuildDailyQueue: %v", err)
	}

	provider := &fakeProvider{available: true, content: fencedVerdicts}
	eval, err := NewEvaluator(st.DB(), provider, lm)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return &evalFixture{st: st, lm: lm, provider: provider, eval: eval}
}

func TestEvaluateHighUncertainty(t *testing.T) {
	fx := newEvalFixture(t)

	res, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("EvaluateHighUncertainty: %v", err)
	}
	if res.Candidates != 2 {
		t.Fatalf("Candidates = %d, want 2 above threshold", res.Candidates)
	}
	if res.Evaluated != 2 {
		t.Fatalf("Evaluated = %d, want 2", res.Evaluated)
	}
	if len(fx.provider.prompts) != 1 {
		t.Fatalf("provider called %d times, want 1", len(fx.provider.prompts))
	}

	// Candidates come back uncertainty-descending, so the sparse bearish
	// title is numbered 1 and the no-match title 2.
	first := res.Evaluations[0]
	if first.Title != "Cổ phiếu giảm" {
		t.Errorf("first evaluation title = %q", first.Title)
	}
	if first.Score != -0.6 || first.Label != "Negative" || first.Confidence != 0.9 {
		t.Errorf("first evaluation = %+v", first)
	}
	if first.Model != "fake-model" {
		t.Errorf("Model = %q", first.Model)
	}
	second := res.Evaluations[1]
	if second.Title != "Công ty tổ chức họp AGM" {
		t.Errorf("second evaluation title = %q", second.Title)
	}
	if second.Label != "Neutral" || second.Confidence != 0.4 {
		t.Errorf("second evaluation = %+v", second)
	}

	stats, err := fx.eval.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Negative != 1 || stats.Neutral != 1 || stats.Synced != 0 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestEvaluateFallsBackToRecentArticles(t *testing.T) {
	fx := newEvalFixture(t)

	if _, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Queue candidates are all evaluated now, so the second run falls back
	// to recent articles that have no verdict yet.
	fx.provider.content = `[{"idx": 1, "score": 0.8, "label": "Positive", "confidence": 0.95, "reasoning": "kỷ lục"}]`
	res, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Candidates != 1 || res.Evaluated != 1 {
		t.Fatalf("second run = %+v, want 1 fallback candidate", res)
	}
	if res.Evaluations[0].Title != "VNM tăng mạnh, lợi nhuận kỷ lục!" {
		t.Errorf("fallback title = %q", res.Evaluations[0].Title)
	}

	// Third run: everything evaluated, nothing to do.
	res, err = fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if res.Candidates != 0 {
		t.Errorf("third run Candidates = %d, want 0", res.Candidates)
	}
}

func TestEvaluateProviderUnavailable(t *testing.T) {
	fx := newEvalFixture(t)
	fx.provider.available = false

	if _, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100); err == nil {
		t.Fatal("expected error for unconfigured provider")
	}
}

func TestEvaluateProviderFailureCountsChunk(t *testing.T) {
	fx := newEvalFixture(t)
	fx.provider.err = fmt.Errorf("upstream 500")

	res, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("EvaluateHighUncertainty: %v", err)
	}
	if res.Failed != 2 || res.Evaluated != 0 {
		t.Errorf("result = %+v, want 2 failed", res)
	}
}

func TestEvaluateBatchSkipsCached(t *testing.T) {
	fx := newEvalFixture(t)

	candidates := []Candidate{{NewsID: 101, Title: "Cổ phiếu giảm"}, {NewsID: 102, Title: "Công ty tổ chức họp AGM"}}
	if _, err := fx.eval.EvaluateBatch(context.Background(), candidates); err != nil {
		t.Fatalf("first EvaluateBatch: %v", err)
	}

	res, err := fx.eval.EvaluateBatch(context.Background(), candidates)
	if err != nil {
		t.Fatalf("second EvaluateBatch: %v", err)
	}
	if res.Evaluated != 0 {
		t.Errorf("second batch evaluated %d, want 0 (cached)", res.Evaluated)
	}
	if len(fx.provider.prompts) != 1 {
		t.Errorf("provider called %d times, want 1", len(fx.provider.prompts))
	}
}

func TestSyncToFeedback(t *testing.T) {
	fx := newEvalFixture(t)
	if _, err := fx.eval.EvaluateHighUncertainty(context.Background(), 7, 100); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	synced, err := fx.eval.SyncToFeedback(0.6)
	if err != nil {
		t.Fatalf("SyncToFeedback: %v", err)
	}
	if synced != 1 {
		t.Fatalf("synced = %d, want 1 (only the 0.9-confidence verdict)", synced)
	}

	var comment string
	err = fx.st.DB().QueryRow(
		`SELECT user_comment FROM sentiment_feedback WHERE news_title = ?`,
		"Cổ phiếu giảm").Scan(&comment)
	if err != nil {
		t.Fatalf("read feedback: %v", err)
	}
	if comment != "[LLM:fake-model] confidence=0.90" {
		t.Errorf("comment = %q", comment)
	}

	fbStats, err := fx.lm.Stats(7)
	if err != nil {
		t.Fatalf("feedback stats: %v", err)
	}
	if fbStats.Total != 1 {
		t.Errorf("feedback rows = %d, want 1", fbStats.Total)
	}

	// Re-sync finds nothing new.
	synced, err = fx.eval.SyncToFeedback(0.6)
	if err != nil {
		t.Fatalf("second SyncToFeedback: %v", err)
	}
	if synced != 0 {
		t.Errorf("second sync = %d, want 0", synced)
	}

	stats, err := fx.eval.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Synced != 1 {
		t.Errorf("Synced = %d, want 1", stats.Synced)
	}
}

func TestParseEvaluations(t *testing.T) {
	plain := `[{"idx": 1, "score": 0.5, "label": "Positive", "confidence": 0.8, "reasoning": "ok"}]`

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"plain array", plain, 1},
		{"code fence", "```json\n" + plain + "\n```", 1},
		{"bare fence", "```\n" + plain + "\n```", 1},
		{"wrapper object", `{"results": ` + plain + `}`, 1},
		{"surrounding prose", "Kết quả đánh giá:\n" + plain + "\nHết.", 1},
		{"garbage", "xin lỗi, tôi không thể đánh giá", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEvaluations(tt.raw)
			if len(got) != tt.want {
				t.Fatalf("parsed %d items, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				if got[0].Idx != 1 || got[0].Score != 0.5 || got[0].Label != "Positive" {
					t.Errorf("item = %+v", got[0])
				}
			}
		})
	}
}

func TestParseEvaluationsDefaults(t *testing.T) {
	got := parseEvaluations(`[{"idx": 1}]`)
	if len(got) != 1 {
		t.Fatalf("parsed %d items, want 1", len(got))
	}
	if got[0].Score != 0 || got[0].Confidence != nil {
		t.Errorf("item = %+v, want zero score and nil confidence", got[0])
	}
}
