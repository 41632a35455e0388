package store

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := openTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version failed: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("expected user_version=%d, got %d", schemaVersion, version)
	}

	if _, err := s.db.Exec("SELECT * FROM articles_fts LIMIT 0"); err != nil {
		t.Errorf("articles_fts table does not exist: %v", err)
	}
}

func TestSaveArticles(t *testing.T) {
	s := openTestStore(t)

	articles := []Article{
		{Source: "cafef", Title: "VNM tăng mạnh", URL: "http://example.com/1", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "HPG giảm nhẹ", URL: "http://example.com/2", CrawlDate: "2025-06-01"},
	}

	n, err := s.SaveArticles(articles)
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 inserted, got %d", n)
	}
}

func TestSaveArticlesIdempotent(t *testing.T) {
	s := openTestStore(t)

	articles := []Article{
		{Source: "cafef", Title: "VNM tăng mạnh", URL: "http://example.com/1", CrawlDate: "2025-06-01"},
	}

	if _, err := s.SaveArticles(articles); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	n, err := s.SaveArticles(articles)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 inserted on re-save, got %d", n)
	}

	st, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if st.Total != 1 {
		t.Errorf("expected 1 article, got %d", st.Total)
	}
}

func TestSaveArticlesEmptyURLDedup(t *testing.T) {
	s := openTestStore(t)

	a := Article{Source: "vnexpress", Title: "Thị trường đi ngang", CrawlDate: "2025-06-01"}

	if _, err := s.SaveArticles([]Article{a, a}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if _, err := s.SaveArticles([]Article{a}); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	st, _ := s.GetStats()
	if st.Total != 1 {
		t.Errorf("expected 1 article after empty-url dedup, got %d", st.Total)
	}

	// Same title on a different crawl date is a distinct row.
	b := a
	b.CrawlDate = "2025-06-02"
	n, err := s.SaveArticles([]Article{b})
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected new crawl date to insert, got %d", n)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{Source: "cafef", Title: "t1", URL: "http://example.com/1", CrawlDate: "2025-06-01"},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	rep, err := s.Migrate()
	if err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	if rep.RowsBefore != rep.RowsAfter {
		t.Errorf("re-migration changed row count: %d -> %d", rep.RowsBefore, rep.RowsAfter)
	}
	if rep.DuplicatesGone != 0 {
		t.Errorf("expected no duplicates removed, got %d", rep.DuplicatesGone)
	}
}

func TestMigrateDedupesLegacyRows(t *testing.T) {
	s := openTestStore(t)

	// Simulate a pre-index database: drop the unique indexes and insert
	// duplicates directly.
	if _, err := s.db.Exec("DROP INDEX idx_articles_url"); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	for _, date := range []string{"2025-06-01", "2025-06-02"} {
		if _, err := s.db.Exec(
			"INSERT INTO articles (source, title, url, crawl_date) VALUES (?, ?, ?, ?)",
			"cafef", "dup", "http://example.com/dup", date,
		); err != nil {
			t.Fatalf("insert duplicate: %v", err)
		}
	}

	rep, err := s.Migrate()
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if rep.DuplicatesGone != 1 {
		t.Errorf("expected 1 duplicate removed, got %d", rep.DuplicatesGone)
	}

	articles, err := s.SearchLike([]string{"dup"}, 10)
	if err != nil {
		t.Fatalf("SearchLike failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(articles))
	}
	if articles[0].CrawlDate != "2025-06-02" {
		t.Errorf("expected most recent crawl to survive, got %s", articles[0].CrawlDate)
	}
}

func TestGetUnscoredAndBatchUpdate(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{Source: "cafef", Title: "a", URL: "http://example.com/a", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "b", URL: "http://example.com/b", CrawlDate: "2025-06-01"},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	unscored, err := s.GetUnscored(10)
	if err != nil {
		t.Fatalf("GetUnscored failed: %v", err)
	}
	if len(unscored) != 2 {
		t.Fatalf("expected 2 unscored, got %d", len(unscored))
	}

	updates := []ScoreUpdate{
		{ID: unscored[0].ID, Score: 0.5, Label: "Bullish"},
		{ID: 99999, Score: 0.1, Label: "Neutral"}, // missing row is skipped
	}
	updated, err := s.BatchUpdateSentiment(updates)
	if err != nil {
		t.Fatalf("BatchUpdateSentiment failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 updated, got %d", updated)
	}

	unscored, err = s.GetUnscored(10)
	if err != nil {
		t.Fatalf("GetUnscored failed: %v", err)
	}
	if len(unscored) != 1 {
		t.Errorf("expected 1 unscored after update, got %d", len(unscored))
	}

	st, _ := s.GetStats()
	if st.Scored != 1 || st.ByLabel["Bullish"] != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestGetScoredByDate(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{Source: "cafef", Title: "a", URL: "http://example.com/a", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "b", URL: "http://example.com/b", CrawlDate: "2025-06-02"},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	unscored, _ := s.GetUnscored(10)
	var updates []ScoreUpdate
	for _, a := range unscored {
		updates = append(updates, ScoreUpdate{ID: a.ID, Score: 0.2, Label: "Somewhat-Bullish"})
	}
	if _, err := s.BatchUpdateSentiment(updates); err != nil {
		t.Fatalf("BatchUpdateSentiment failed: %v", err)
	}

	scored, err := s.GetScoredByDate("2025-06-01")
	if err != nil {
		t.Fatalf("GetScoredByDate failed: %v", err)
	}
	if len(scored) != 1 || scored[0].Title != "a" {
		t.Errorf("unexpected scored set: %+v", scored)
	}
	if scored[0].Sentiment == nil || *scored[0].Sentiment != 0.2 {
		t.Errorf("sentiment not round-tripped: %+v", scored[0].Sentiment)
	}
	if scored[0].ScoredAt == nil || time.Since(*scored[0].ScoredAt) > time.Minute {
		t.Errorf("scored_at not set")
	}
}

func TestGetArticle(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{
			Source:    "cafef",
			Title:     "VNM tăng mạnh",
			URL:       "http://example.com/1",
			MobileURL: "http://m.example.com/1",
			Ranks:     "3,7,12",
			CrawlDate: "2025-06-01",
		},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	unscored, _ := s.GetUnscored(1)
	if len(unscored) != 1 {
		t.Fatalf("expected the seeded article, got %d", len(unscored))
	}

	a, err := s.GetArticle(unscored[0].ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.Title != "VNM tăng mạnh" || a.Source != "cafef" {
		t.Errorf("unexpected article: %+v", a)
	}
	if a.MobileURL != "http://m.example.com/1" || a.Ranks != "3,7,12" {
		t.Errorf("crawler annotations not round-tripped: %+v", a)
	}

	if _, err := s.GetArticle(99999); err == nil {
		t.Error("expected error for missing article")
	}
}

func TestGetFiltered(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{Source: "cafef", Title: "a", URL: "http://example.com/a", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "b", URL: "http://example.com/b", CrawlDate: "2025-06-02"},
		{Source: "vnexpress", Title: "c", URL: "http://example.com/c", CrawlDate: "2025-06-02"},
		{Source: "cafef", Title: "d", URL: "http://example.com/d", CrawlDate: "2025-06-03"},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	// Both bounds are inclusive.
	got, err := s.GetFiltered("2025-06-02", "2025-06-03", "", 50)
	if err != nil {
		t.Fatalf("GetFiltered failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 in range, got %d", len(got))
	}
	if got[0].Title != "d" {
		t.Errorf("expected newest first, got %q", got[0].Title)
	}

	got, err = s.GetFiltered("", "", "vnexpress", 50)
	if err != nil {
		t.Fatalf("GetFiltered by source failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "c" {
		t.Errorf("unexpected source filter result: %+v", got)
	}

	got, err = s.GetFiltered("2025-06-01", "2025-06-03", "cafef", 2)
	if err != nil {
		t.Fatalf("GetFiltered with limit failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "d" || got[1].Title != "b" {
		t.Errorf("unexpected limited result: %+v", got)
	}

	got, err = s.GetFiltered("2030-01-01", "", "", 50)
	if err != nil {
		t.Fatalf("GetFiltered empty range failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
