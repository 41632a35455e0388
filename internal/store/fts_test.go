package store

import (
	"testing"
)

func TestFTSTriggers(t *testing.T) {
	s := openTestStore(t)

	a := Article{
		Source:    "cafef",
		Title:     "Vingroup báo lãi kỷ lục",
		Summary:   "Lợi nhuận quý tăng mạnh",
		URL:       "http://example.com/1",
		CrawlDate: "2025-06-01",
	}

	// INSERT trigger
	if _, err := s.SaveArticles([]Article{a}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	results, err := s.SearchFTS("Vingroup", 10)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after insert, got %d", len(results))
	}

	// UPDATE trigger
	if _, err := s.db.Exec("UPDATE articles SET title = ? WHERE id = ?", "Masan mở rộng", results[0].ID); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	results, err = s.SearchFTS("Vingroup", 10)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected old title gone from index, got %d results", len(results))
	}
	results, err = s.SearchFTS("Masan", 10)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected new title indexed, got %d results", len(results))
	}

	// DELETE trigger
	if _, err := s.db.Exec("DELETE FROM articles WHERE id = ?", results[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	results, err = s.SearchFTS("Masan", 10)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected index cleared after delete, got %d results", len(results))
	}
}

func TestSearchFTSQuotedRetry(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{{
		Source:    "cafef",
		Title:     "Cổ phiếu C++ không tồn tại",
		URL:       "http://example.com/1",
		CrawlDate: "2025-06-01",
	}}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	// "C++" is invalid FTS5 syntax; the search must retry it as a phrase
	// instead of surfacing the parse error.
	if _, err := s.SearchFTS("C++", 10); err != nil {
		t.Fatalf("SearchFTS failed on syntax error: %v", err)
	}
}

func TestSearchLikeRanksByAliasHits(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveArticles([]Article{
		{Source: "cafef", Title: "Vingroup và Vinhomes cùng tăng", URL: "http://example.com/1", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "Vinhomes mở bán dự án", URL: "http://example.com/2", CrawlDate: "2025-06-01"},
		{Source: "cafef", Title: "Thị trường thép biến động", URL: "http://example.com/3", CrawlDate: "2025-06-01"},
	}); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	results, err := s.SearchLike([]string{"vingroup", "vinhomes"}, 10)
	if err != nil {
		t.Fatalf("SearchLike failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "http://example.com/1" {
		t.Errorf("expected two-alias article ranked first, got %s", results[0].URL)
	}
}
