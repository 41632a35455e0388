// Package store provides the SQLite data layer for newsense.
//
// Store is the source of truth - every article flows through it: saved
// after import, scored in batches, searched by ticker, and joined against
// the labeling queue.
//
// # Thread Safety
//
// Store is safe for concurrent use. The underlying sql.DB handles connection
// pooling and serialization. Individual operations are atomic, but sequences
// of operations (read-modify-write) require external synchronization.
//
// # Transactions
//
// SaveArticles and BatchUpdateSentiment use a transaction to ensure
// atomicity. Other operations are single statements and implicitly atomic.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Article is one crawled news item.
//
// Sentiment and ScoredAt are nil until the batch scorer has processed the
// row. URL may be empty; dedup then falls back to (source, title, crawl
// date).
type Article struct {
	ID             int64
	Source         string
	Title          string
	Summary        string
	URL            string
	MobileURL      string
	Ranks          string // free-form crawler rank annotations, comma-separated
	CrawlDate      string // YYYY-MM-DD
	PublishedAt    time.Time
	Sentiment      *float64
	SentimentLabel string
	ScoredAt       *time.Time
}

// ScoreUpdate carries one scored article back to the store.
type ScoreUpdate struct {
	ID    int64
	Score float64
	Label string
}

// Store handles persistence of articles.
type Store struct {
	db *sql.DB
}

// Open creates a Store at the given database path.
//
// The database is created if it doesn't exist, and migrations are applied
// automatically. Uses WAL mode for file-based databases; ":memory:" maps to
// a shared-cache in-memory database limited to one connection so every
// statement sees the same data.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if _, err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for advanced queries.
//
// Use with caution - prefer using Store methods for common operations.
// The labeling and learning packages build their tables on top of this
// handle so everything shares one database file.
func (s *Store) DB() *sql.DB {
	return s.db
}
