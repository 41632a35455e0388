package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quangtran/newsense/internal/logging"
)

// SaveArticles stores articles in a single transaction, returning the count
// of new rows inserted.
//
// Duplicates are silently ignored via INSERT OR IGNORE against the unique
// indexes: one row per non-empty URL, one row per (source, title, crawl
// date) when the URL is empty. Re-saving the same batch inserts 0.
// Individual failures are logged but do not stop the transaction.
func (s *Store) SaveArticles(articles []Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback is safe to call even after commit - it's a no-op
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO articles (source, title, summary, url, mobile_url, ranks, crawl_date, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	var inserted, failed int
	for _, a := range articles {
		var published any
		if !a.PublishedAt.IsZero() {
			published = a.PublishedAt
		}
		result, err := stmt.Exec(a.Source, a.Title, a.Summary, a.URL, a.MobileURL, a.Ranks, a.CrawlDate, published)
		if err != nil {
			logging.Debug("Failed to save article",
				"title", truncateString(a.Title, 50),
				"error", err)
			failed++
			continue
		}
		rows, err := result.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	if failed > 0 {
		logging.Warn("Some articles failed to save",
			"failed_count", failed,
			"inserted_count", inserted)
	}

	return inserted, nil
}

// GetArticle fetches a single article by id.
func (s *Store) GetArticle(id int64) (*Article, error) {
	rows, err := s.db.Query(selectArticle+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query article: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("article not found: %d", id)
	}
	return &articles[0], nil
}

// GetUnscored retrieves articles that have not been sentiment-scored yet,
// oldest first so backlogs drain in crawl order.
func (s *Store) GetUnscored(limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(selectArticle+`
		WHERE sentiment IS NULL
		ORDER BY id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unscored: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetScoredByDate retrieves scored articles crawled on the given date.
func (s *Store) GetScoredByDate(date string) ([]Article, error) {
	rows, err := s.db.Query(selectArticle+`
		WHERE crawl_date = ? AND sentiment IS NOT NULL
		ORDER BY id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("query scored by date: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetFiltered retrieves articles whose crawl date falls inside the
// inclusive [start, end] range, optionally narrowed to one source,
// newest first. Empty bounds are open-ended; a missing source matches
// everything. No matches is an empty slice, not an error.
func (s *Store) GetFiltered(start, end, source string, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 50
	}

	query := selectArticle + ` WHERE 1=1`
	var args []any
	if start != "" {
		query += ` AND crawl_date >= ?`
		args = append(args, start)
	}
	if end != "" {
		query += ` AND crawl_date <= ?`
		args = append(args, end)
	}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY crawl_date DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query filtered: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// BatchUpdateSentiment writes a batch of scores in one transaction.
//
// A missing row is logged and skipped - the batch keeps going. Returns the
// number of rows actually updated.
func (s *Store) BatchUpdateSentiment(updates []ScoreUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE articles SET sentiment = ?, sentiment_label = ?, scored_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	var updated int
	for _, u := range updates {
		result, err := stmt.Exec(u.Score, u.Label, now, u.ID)
		if err != nil {
			logging.Warn("Failed to update sentiment", "id", u.ID, "error", err)
			continue
		}
		rows, err := result.RowsAffected()
		if err == nil && rows > 0 {
			updated++
		} else if rows == 0 {
			logging.Warn("Sentiment update matched no row", "id", u.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return updated, nil
}

// Stats holds aggregate counts over the article table.
type Stats struct {
	Total    int
	Scored   int
	Unscored int
	ByLabel  map[string]int
}

// GetStats returns aggregate article counts.
func (s *Store) GetStats() (Stats, error) {
	st := Stats{ByLabel: make(map[string]int)}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(sentiment),
			COUNT(*) - COUNT(sentiment)
		FROM articles
	`).Scan(&st.Total, &st.Scored, &st.Unscored)
	if err != nil {
		return st, fmt.Errorf("count articles: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT sentiment_label, COUNT(*)
		FROM articles
		WHERE sentiment_label IS NOT NULL AND sentiment_label <> ''
		GROUP BY sentiment_label
	`)
	if err != nil {
		return st, fmt.Errorf("count labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return st, fmt.Errorf("scan label count: %w", err)
		}
		st.ByLabel[label] = count
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("iterate label counts: %w", err)
	}

	return st, nil
}

const selectArticle = `
	SELECT id, source, title, summary, url, mobile_url, ranks, crawl_date, published_at,
		sentiment, sentiment_label, scored_at
	FROM articles`

// scanArticles scans rows into articles, handling the common scanning logic.
func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var a Article
		var published, scoredAt sql.NullTime
		var sentiment sql.NullFloat64
		var label sql.NullString
		err := rows.Scan(
			&a.ID,
			&a.Source,
			&a.Title,
			&a.Summary,
			&a.URL,
			&a.MobileURL,
			&a.Ranks,
			&a.CrawlDate,
			&published,
			&sentiment,
			&label,
			&scoredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if published.Valid {
			a.PublishedAt = published.Time
		}
		if sentiment.Valid {
			v := sentiment.Float64
			a.Sentiment = &v
		}
		a.SentimentLabel = label.String
		if scoredAt.Valid {
			t := scoredAt.Time
			a.ScoredAt = &t
		}
		articles = append(articles, a)
	}

	// Critical: check for errors from row iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return articles, nil
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
