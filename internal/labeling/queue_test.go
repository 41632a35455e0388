package labeling

import (
	"errors"
	"testing"

	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/store"
	"github.com/quangtran/newsense/internal/vivader"
)

func newTestEngine(t *testing.T) (*store.Store, *learning.Manager, *Engine) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	lm, err := learning.New(st.DB())
	if err != nil {
		t.Fatalf("learning: %v", err)
	}
	eng, err := NewEngine(st.DB(), lexicon.NewScorer(), lm)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return st, lm, eng
}

func seedArticles(t *testing.T, st *store.Store, date string, titles ...string) {
	t.Helper()
	articles := make([]store.Article, len(titles))
	for i, title := range titles {
		articles[i] = store.Article{
			Source:    "cafef",
			Title:     title,
			URL:       "https://example.com/" + date + "/" + title,
			CrawlDate: date,
		}
	}
	if _, err := st.SaveArticles(articles); err != nil {
		t.Fatalf("seed articles: %v", err)
	}
}

func TestBuildDailyQueueOrdering(t *testing.T) {
	st, _, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date,
		"VNM tăng mạnh, lợi nhuận kỷ lục!", // strong signal, many matches
		"Công ty tổ chức họp AGM",          // no matches at all
		"Cổ phiếu giảm",                    // one match, near a boundary
	)

	result, err := eng.BuildDailyQueue(date, 25)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 3 || result.TotalCandidates != 3 || result.AlreadyQueued != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	items, err := eng.Items(date, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Title != "Cổ phiếu giảm" {
		t.Errorf("rank 1 = %q, want the near-boundary sparse title", items[0].Title)
	}
	if items[len(items)-1].Title != "VNM tăng mạnh, lợi nhuận kỷ lục!" {
		t.Errorf("last rank = %q, want the confident title", items[len(items)-1].Title)
	}
	for i, it := range items {
		if it.PriorityRank != i+1 {
			t.Errorf("item %d has rank %d", i, it.PriorityRank)
		}
		if it.Uncertainty <= 0 || it.Uncertainty > 1 {
			t.Errorf("uncertainty out of range: %v", it.Uncertainty)
		}
	}
}

func TestBuildDailyQueueIdempotent(t *testing.T) {
	st, _, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date,
		"VNM tăng mạnh, lợi nhuận kỷ lục!",
		"Công ty tổ chức họp AGM",
		"Cổ phiếu giảm",
	)

	first, err := eng.BuildDailyQueue(date, 2)
	if err != nil {
		t.Fatal(err)
	}
	if first.Inserted != 2 {
		t.Fatalf("first build inserted %d, want 2", first.Inserted)
	}

	second, err := eng.BuildDailyQueue(date, 2)
	if err != nil {
		t.Fatal(err)
	}
	if second.Inserted != 1 || second.AlreadyQueued != 2 {
		t.Errorf("second build: %+v, want 1 new, 2 already queued", second)
	}

	items, _ := eng.Items(date, "")
	seen := map[int64]bool{}
	for _, it := range items {
		if seen[it.NewsID] {
			t.Errorf("article %d queued twice", it.NewsID)
		}
		seen[it.NewsID] = true
	}
}

func TestBuildDailyQueueMinUncertainty(t *testing.T) {
	st, lm, _ := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date,
		"VNM tăng mạnh, lợi nhuận kỷ lục!", // confident, below threshold
		"Công ty tổ chức họp AGM",
		"Cổ phiếu giảm",
	)

	eng, err := NewEngine(st.DB(), lexicon.NewScorer(), lm, WithMinUncertainty(0.3))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	result, err := eng.BuildDailyQueue(date, 25)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2 above the threshold", result.Inserted)
	}
	items, err := eng.Items(date, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if it.Uncertainty < 0.3 {
			t.Errorf("queued item %q with uncertainty %.3f below threshold", it.Title, it.Uncertainty)
		}
	}
}

func TestBuildDailyQueueRecordsSecondaryDirection(t *testing.T) {
	st, lm, _ := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date,
		"VNM tăng mạnh, lợi nhuận kỷ lục!",
		"Cổ phiếu giảm",
		"Công ty tổ chức họp AGM", // no directional signal
	)

	eng, err := NewEngine(st.DB(), lexicon.NewScorer(), lm, WithSecondary(vivader.New(nil)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if _, err := eng.BuildDailyQueue(date, 25); err != nil {
		t.Fatal(err)
	}

	items, err := eng.Items(date, "")
	if err != nil {
		t.Fatal(err)
	}
	byTitle := map[string]Item{}
	for _, it := range items {
		byTitle[it.Title] = it
	}
	if got := byTitle["VNM tăng mạnh, lợi nhuận kỷ lục!"].SecondaryLabel; got != "positive" {
		t.Errorf("bullish title stored secondary %q, want positive", got)
	}
	if got := byTitle["Cổ phiếu giảm"].SecondaryLabel; got != "negative" {
		t.Errorf("bearish title stored secondary %q, want negative", got)
	}
	if got := byTitle["Công ty tổ chức họp AGM"].SecondaryLabel; got != "" {
		t.Errorf("neutral title stored secondary %q, want empty", got)
	}
}

func TestItemByID(t *testing.T) {
	st, _, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date, "Công ty tổ chức họp AGM")
	if _, err := eng.BuildDailyQueue(date, 25); err != nil {
		t.Fatal(err)
	}
	pending, _ := eng.PendingItems(date)

	it, err := eng.ItemByID(pending[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if it.NewsID != pending[0].NewsID || it.Title != "Công ty tổ chức họp AGM" {
		t.Errorf("unexpected item: %+v", it)
	}

	if _, err := eng.ItemByID(99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item: %v, want ErrNotFound", err)
	}
}

func TestBuildDailyQueueEmptyDate(t *testing.T) {
	_, _, eng := newTestEngine(t)

	result, err := eng.BuildDailyQueue("2025-07-01", 25)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 0 || result.TotalCandidates != 0 {
		t.Errorf("empty date should be a no-op: %+v", result)
	}
}

func TestBuildDailyQueueMalformedDate(t *testing.T) {
	_, _, eng := newTestEngine(t)

	result, err := eng.BuildDailyQueue("not-a-date", 25)
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 0 || result.TotalCandidates != 0 {
		t.Errorf("malformed date should be a no-op: %+v", result)
	}
}

func TestSubmitLabel(t *testing.T) {
	st, lm, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date, "Công ty tổ chức họp AGM")
	if _, err := eng.BuildDailyQueue(date, 25); err != nil {
		t.Fatal(err)
	}

	pending, err := eng.PendingItems(date)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %v %d", err, len(pending))
	}
	id := pending[0].ID

	feedbackID, err := eng.SubmitLabel(id, 0.8, lexicon.Bullish, "clearly good news")
	if err != nil {
		t.Fatal(err)
	}
	if feedbackID == 0 {
		t.Fatal("feedback id not returned")
	}

	items, _ := eng.Items(date, "labeled")
	if len(items) != 1 {
		t.Fatalf("expected 1 labeled item, got %d", len(items))
	}
	it := items[0]
	if it.FeedbackID == nil || *it.FeedbackID != feedbackID {
		t.Errorf("feedback back-reference missing: %+v", it.FeedbackID)
	}
	if it.UserScore == nil || *it.UserScore != 0.8 || it.UserLabel != string(lexicon.Bullish) {
		t.Errorf("correction not stored: %+v", it)
	}
	if it.LabeledAt == nil {
		t.Error("labeled_at not set")
	}

	stats, err := lm.Stats(7)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 {
		t.Errorf("feedback rows = %d, want 1", stats.Total)
	}
}

func TestSubmitLabelTwice(t *testing.T) {
	st, _, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date, "Công ty tổ chức họp AGM")
	eng.BuildDailyQueue(date, 25)
	pending, _ := eng.PendingItems(date)

	if _, err := eng.SubmitLabel(pending[0].ID, 0.1, lexicon.Neutral, ""); err != nil {
		t.Fatal(err)
	}
	_, err := eng.SubmitLabel(pending[0].ID, 0.2, lexicon.SomewhatBullish, "")
	if !errors.Is(err, ErrAlreadyLabeled) {
		t.Errorf("second submit: %v, want ErrAlreadyLabeled", err)
	}
}

func TestSubmitLabelNotFound(t *testing.T) {
	_, _, eng := newTestEngine(t)

	_, err := eng.SubmitLabel(12345, 0.5, lexicon.Bullish, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item: %v, want ErrNotFound", err)
	}
}

func TestSubmitLabelTriggersExtraction(t *testing.T) {
	st, lm, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date, "Công ty tổ chức họp AGM")
	eng.BuildDailyQueue(date, 25)
	pending, _ := eng.PendingItems(date)

	// Predicted 0.0, corrected 0.8: the gap exceeds the extraction
	// threshold, so the title's n-grams should be filed immediately.
	if _, err := eng.SubmitLabel(pending[0].ID, 0.8, lexicon.Bullish, ""); err != nil {
		t.Fatal(err)
	}
	suggestions, err := lm.PendingSuggestions(50)
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions extracted from the corrected title")
	}
	for _, s := range suggestions {
		if s.SentimentType != "positive" {
			t.Errorf("suggestion %q has type %q, want positive", s.Keyword, s.SentimentType)
		}
	}
}

func TestSkip(t *testing.T) {
	st, _, eng := newTestEngine(t)
	date := "2025-06-01"
	seedArticles(t, st, date, "Công ty tổ chức họp AGM", "Cổ phiếu giảm")
	eng.BuildDailyQueue(date, 25)
	pending, _ := eng.PendingItems(date)

	if err := eng.Skip(pending[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := eng.Skip(pending[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second skip: %v, want ErrNotFound", err)
	}

	stats, err := eng.QueueStats(date)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Skipped != 1 || stats.Pending != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.MaxUncertainty <= 0 {
		t.Errorf("max uncertainty = %v", stats.MaxUncertainty)
	}
}
