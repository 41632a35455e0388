package store

import (
	"fmt"

	"github.com/quangtran/newsense/internal/logging"
)

// schemaVersion is the current schema recorded in PRAGMA user_version.
// Version 2 adds the FTS index and its sync triggers.
const schemaVersion = 2

// MigrationReport summarizes what a migration pass did.
type MigrationReport struct {
	RowsBefore     int
	RowsAfter      int
	DuplicatesGone int
	FromVersion    int
	ToVersion      int
}

// Migrate brings the schema up to date. Safe to run on every startup:
// every step is idempotent. Pre-existing duplicate rows are removed
// (most recent crawl wins) before the unique indexes are created, so
// upgrades from databases without the indexes succeed.
func (s *Store) Migrate() (MigrationReport, error) {
	var rep MigrationReport

	if err := s.db.QueryRow("PRAGMA user_version").Scan(&rep.FromVersion); err != nil {
		return rep, fmt.Errorf("read schema version: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		mobile_url TEXT NOT NULL DEFAULT '',
		ranks TEXT NOT NULL DEFAULT '',
		crawl_date TEXT NOT NULL,
		published_at DATETIME,
		sentiment REAL,
		sentiment_label TEXT,
		scored_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_crawl_date ON articles(crawl_date);
	CREATE INDEX IF NOT EXISTS idx_articles_unscored ON articles(sentiment) WHERE sentiment IS NULL;
	`
	if _, err := s.db.Exec(schema); err != nil {
		return rep, fmt.Errorf("create tables: %w", err)
	}

	// Older databases predate the scoring and crawler-annotation columns.
	for _, col := range []struct{ name, ddl string }{
		{"sentiment", "ALTER TABLE articles ADD COLUMN sentiment REAL"},
		{"sentiment_label", "ALTER TABLE articles ADD COLUMN sentiment_label TEXT"},
		{"scored_at", "ALTER TABLE articles ADD COLUMN scored_at DATETIME"},
		{"mobile_url", "ALTER TABLE articles ADD COLUMN mobile_url TEXT NOT NULL DEFAULT ''"},
		{"ranks", "ALTER TABLE articles ADD COLUMN ranks TEXT NOT NULL DEFAULT ''"},
	} {
		if !s.columnExists("articles", col.name) {
			if _, err := s.db.Exec(col.ddl); err != nil {
				return rep, fmt.Errorf("add column %s: %w", col.name, err)
			}
		}
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&rep.RowsBefore); err != nil {
		return rep, fmt.Errorf("count rows: %w", err)
	}

	// Dedupe before the unique indexes exist; latest crawl wins, newest
	// row breaks ties.
	dedup := []string{
		`DELETE FROM articles WHERE url <> '' AND id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY url ORDER BY crawl_date DESC, id DESC
				) AS rn FROM articles WHERE url <> ''
			) WHERE rn = 1
		)`,
		`DELETE FROM articles WHERE url = '' AND id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY source, title, crawl_date ORDER BY id DESC
				) AS rn FROM articles WHERE url = ''
			) WHERE rn = 1
		)`,
	}
	for _, stmt := range dedup {
		if _, err := s.db.Exec(stmt); err != nil {
			return rep, fmt.Errorf("dedupe articles: %w", err)
		}
	}

	indexes := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_url
		ON articles(url) WHERE url <> '';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_src_title_date
		ON articles(source, title, crawl_date) WHERE url = '';
	`
	if _, err := s.db.Exec(indexes); err != nil {
		return rep, fmt.Errorf("create unique indexes: %w", err)
	}

	if err := s.migrateFTS(); err != nil {
		return rep, fmt.Errorf("migrate fts: %w", err)
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return rep, fmt.Errorf("set schema version: %w", err)
	}
	rep.ToVersion = schemaVersion

	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&rep.RowsAfter); err != nil {
		return rep, fmt.Errorf("count rows: %w", err)
	}
	rep.DuplicatesGone = rep.RowsBefore - rep.RowsAfter

	if rep.DuplicatesGone > 0 {
		logging.Info("migration removed duplicate articles",
			"before", rep.RowsBefore,
			"after", rep.RowsAfter,
			"removed", rep.DuplicatesGone)
	}

	return rep, nil
}

// migrateFTS creates the full-text index over titles and summaries, with
// triggers keeping it in sync with the articles table. The index is rebuilt
// when it is first created so pre-existing rows become searchable.
func (s *Store) migrateFTS() error {
	existed := s.tableExists("articles_fts")

	ftsSchema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
		title, summary,
		content='articles',
		content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS articles_ai AFTER INSERT ON articles BEGIN
		INSERT INTO articles_fts(rowid, title, summary)
		VALUES (new.id, new.title, new.summary);
	END;

	CREATE TRIGGER IF NOT EXISTS articles_ad AFTER DELETE ON articles BEGIN
		INSERT INTO articles_fts(articles_fts, rowid, title, summary)
		VALUES ('delete', old.id, old.title, old.summary);
	END;

	CREATE TRIGGER IF NOT EXISTS articles_au AFTER UPDATE OF title, summary ON articles BEGIN
		INSERT INTO articles_fts(articles_fts, rowid, title, summary)
		VALUES ('delete', old.id, old.title, old.summary);
		INSERT INTO articles_fts(rowid, title, summary)
		VALUES (new.id, new.title, new.summary);
	END;
	`
	if _, err := s.db.Exec(ftsSchema); err != nil {
		return err
	}

	if !existed {
		if _, err := s.db.Exec("INSERT INTO articles_fts(articles_fts) VALUES ('rebuild')"); err != nil {
			return err
		}
	}

	return nil
}

// isValidIdentifier checks if a string is a safe SQL identifier (alphanumeric and underscore only).
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

// columnExists checks if a column exists in a table using pragma_table_info.
// This is more reliable than checking error messages from ALTER TABLE.
func (s *Store) columnExists(table, column string) bool {
	if !isValidIdentifier(table) || !isValidIdentifier(column) {
		logging.Error("Invalid identifier in columnExists", "table", table, "column", column)
		return false
	}
	// Table name can't be parameterized, but column name can be
	query := fmt.Sprintf("SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?", table)
	var count int
	if err := s.db.QueryRow(query, column).Scan(&count); err != nil {
		logging.Error("columnExists check failed", "table", table, "column", column, "error", err)
		return false
	}
	return count > 0
}

func (s *Store) tableExists(table string) bool {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		table,
	).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}
