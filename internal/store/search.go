package store

import (
	"fmt"
	"strings"

	"github.com/quangtran/newsense/internal/logging"
)

// SearchFTS runs a full-text query over titles and summaries, ordered by
// bm25 relevance. The query uses FTS5 MATCH syntax; if the raw query fails
// to parse (tickers like "C++" or unbalanced quotes), it is retried as a
// single quoted phrase.
func (s *Store) SearchFTS(query string, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 50
	}

	articles, err := s.searchFTSRaw(query, limit)
	if err != nil && isFTSSyntaxError(err) {
		quoted := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
		logging.Debug("FTS query failed to parse, retrying quoted", "query", query)
		return s.searchFTSRaw(quoted, limit)
	}
	return articles, err
}

func (s *Store) searchFTSRaw(match string, limit int) ([]Article, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.source, a.title, a.summary, a.url, a.mobile_url, a.ranks,
			a.crawl_date, a.published_at, a.sentiment, a.sentiment_label, a.scored_at
		FROM articles_fts f
		JOIN articles a ON a.id = f.rowid
		WHERE articles_fts MATCH ?
		ORDER BY bm25(articles_fts)
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func isFTSSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unterminated string") ||
		strings.Contains(msg, "no such column")
}

// SearchLike is the fallback when an FTS phrase query finds nothing:
// a LIKE scan over title and summary, ranked by how many of the given
// aliases each article matches.
func (s *Store) SearchLike(aliases []string, limit int) ([]Article, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var conds []string
	var scores []string
	var args []any
	for _, alias := range aliases {
		pattern := "%" + strings.ToLower(alias) + "%"
		conds = append(conds, "(LOWER(a.title) LIKE ? OR LOWER(a.summary) LIKE ?)")
		scores = append(scores, "(CASE WHEN LOWER(a.title) LIKE ? OR LOWER(a.summary) LIKE ? THEN 1 ELSE 0 END)")
		args = append(args, pattern, pattern)
	}
	// The ORDER BY expression repeats every pattern after the WHERE ones.
	args = append(args, args...)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT a.id, a.source, a.title, a.summary, a.url, a.mobile_url, a.ranks,
			a.crawl_date, a.published_at, a.sentiment, a.sentiment_label, a.scored_at
		FROM articles a
		WHERE %s
		ORDER BY (%s) DESC, a.id DESC
		LIMIT ?`,
		strings.Join(conds, " OR "),
		strings.Join(scores, " + "))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("like query: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}
