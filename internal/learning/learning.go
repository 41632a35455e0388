// Package learning grows the sentiment lexicon from human corrections.
//
// Feedback rows are append-only. Keyword suggestions are mined from them,
// reviewed (by hand or by the aggregation pass), and promoted into
// learned_keywords, which the scorer picks up through LearnedProvider.
package learning

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/quangtran/newsense/internal/logging"
)

// querier is satisfied by both *sql.DB and *sql.Tx so feedback writes can
// join a caller's transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Manager owns the feedback, suggestion, and learned-keyword tables.
type Manager struct {
	db *sql.DB
}

// Feedback is one human or LLM correction of a prediction.
type Feedback struct {
	NewsID         int64 // 0 when not linked to an article
	Title          string
	URL            string
	PredictedScore float64
	PredictedLabel string
	UserScore      float64
	UserLabel      string
	Comment        string
}

// extractionGap is the prediction error beyond which a correction is worth
// mining for new keywords immediately.
const extractionGap = 0.3

// sqliteNow formats the current UTC time the way datetime('now') does, so
// window queries can compare created_at lexicographically.
func sqliteNow() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

// New prepares the learning tables on db.
func New(db *sql.DB) (*Manager, error) {
	m := &Manager{db: db}
	if err := m.initTables(); err != nil {
		return nil, fmt.Errorf("init learning tables: %w", err)
	}
	return m, nil
}

func (m *Manager) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sentiment_feedback (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			news_id         INTEGER,
			news_title      TEXT NOT NULL,
			news_url        TEXT,
			predicted_score REAL,
			predicted_label TEXT,
			user_score      REAL,
			user_label      TEXT,
			user_comment    TEXT,
			created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS learned_keywords (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword        TEXT UNIQUE NOT NULL,
			sentiment_type TEXT NOT NULL,
			weight         REAL NOT NULL,
			confidence     REAL DEFAULT 0.5,
			frequency      INTEGER DEFAULT 1,
			last_seen      TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			source         TEXT DEFAULT 'user_feedback',
			status         TEXT DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS keyword_suggestions (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword             TEXT NOT NULL,
			sentiment_type      TEXT NOT NULL,
			suggested_weight    REAL,
			co_occurrence_count INTEGER DEFAULT 1,
			supporting_titles   TEXT,
			created_at          TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			reviewed            BOOLEAN DEFAULT 0
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_suggestions_keyword_type
			ON keyword_suggestions(keyword, sentiment_type)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_created
			ON sentiment_feedback(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_keywords_status
			ON learned_keywords(status)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordFeedback appends a correction. When the prediction missed by more
// than extractionGap the title's n-grams are filed as keyword suggestions
// right away, so a badly wrong lexicon starts correcting itself before the
// next mining pass.
func (m *Manager) RecordFeedback(fb Feedback) (int64, error) {
	tx, err := m.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := m.RecordFeedbackTx(tx, fb)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// RecordFeedbackTx is RecordFeedback inside a caller-owned transaction.
func (m *Manager) RecordFeedbackTx(tx *sql.Tx, fb Feedback) (int64, error) {
	return m.recordFeedback(tx, fb)
}

func (m *Manager) recordFeedback(q querier, fb Feedback) (int64, error) {
	var newsID any
	if fb.NewsID != 0 {
		newsID = fb.NewsID
	}
	res, err := q.Exec(`
		INSERT INTO sentiment_feedback
			(news_id, news_title, news_url, predicted_score, predicted_label,
			 user_score, user_label, user_comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newsID, fb.Title, fb.URL, fb.PredictedScore, fb.PredictedLabel,
		fb.UserScore, fb.UserLabel, fb.Comment, sqliteNow())
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if math.Abs(fb.UserScore-fb.PredictedScore) > extractionGap {
		if err := m.extractFromTitle(q, fb.Title, fb.UserScore); err != nil {
			return 0, fmt.Errorf("extract keywords: %w", err)
		}
	}
	return id, nil
}

// extractFromTitle files the title's bigrams and trigrams as suggestions,
// signed by the corrected score. Sub-neutral corrections carry no usable
// direction and are skipped.
func (m *Manager) extractFromTitle(q querier, title string, userScore float64) error {
	var sentimentType string
	switch {
	case userScore > 0.15:
		sentimentType = "positive"
	case userScore < -0.15:
		sentimentType = "negative"
	default:
		return nil
	}

	words := tokenize(title)
	grams := append(ngrams(words, 2), ngrams(words, 3)...)
	examples, err := json.Marshal([]string{title})
	if err != nil {
		return err
	}

	for _, kw := range grams {
		_, err := q.Exec(`
			INSERT OR IGNORE INTO keyword_suggestions
				(keyword, sentiment_type, suggested_weight, supporting_titles)
			VALUES (?, ?, ?, ?)`,
			kw, sentimentType, math.Abs(userScore), string(examples))
		if err != nil {
			return err
		}
	}
	return nil
}

// Approve promotes a keyword into the learned lexicon.
func (m *Manager) Approve(keyword, sentimentType string, weight float64) error {
	if sentimentType != "positive" && sentimentType != "negative" {
		return fmt.Errorf("invalid sentiment type %q", sentimentType)
	}
	_, err := m.db.Exec(`
		INSERT OR REPLACE INTO learned_keywords
			(keyword, sentiment_type, weight, confidence, frequency, status, last_seen)
		VALUES (?, ?, ?, 1.0, 1, 'approved', ?)`,
		keyword, sentimentType, weight, sqliteNow())
	if err != nil {
		return fmt.Errorf("approve keyword: %w", err)
	}
	logging.Info("approved keyword", "keyword", keyword, "type", sentimentType, "weight", weight)
	return nil
}

// Reject marks a suggestion reviewed without promoting it.
func (m *Manager) Reject(suggestionID int64) error {
	_, err := m.db.Exec(
		`UPDATE keyword_suggestions SET reviewed = 1 WHERE id = ?`, suggestionID)
	return err
}

// FeedbackStats summarizes prediction quality over a recent window.
type FeedbackStats struct {
	Total      int
	Accurate   int // |user - predicted| <= 0.2
	Accuracy   float64
	AvgError   float64
	PeriodDays int
}

// Stats reports feedback volume and accuracy over the last days days.
func (m *Manager) Stats(days int) (FeedbackStats, error) {
	s := FeedbackStats{PeriodDays: days}

	var avgErr sql.NullFloat64
	err := m.db.QueryRow(`
		SELECT COUNT(*), AVG(ABS(user_score - predicted_score))
		FROM sentiment_feedback
		WHERE created_at >= datetime('now', '-' || ? || ' days')`, days).
		Scan(&s.Total, &avgErr)
	if err != nil {
		return s, err
	}
	s.AvgError = avgErr.Float64

	err = m.db.QueryRow(`
		SELECT COUNT(*)
		FROM sentiment_feedback
		WHERE created_at >= datetime('now', '-' || ? || ' days')
		  AND ABS(user_score - predicted_score) <= 0.2`, days).
		Scan(&s.Accurate)
	if err != nil {
		return s, err
	}
	if s.Total > 0 {
		s.Accuracy = float64(s.Accurate) / float64(s.Total) * 100
	}
	return s, nil
}

// LearnedProvider exposes approved keywords to the scorer. The version is
// a hash of the approved set, so it moves exactly when the set does.
type LearnedProvider struct {
	m *Manager
}

// Provider returns the scorer-facing view of the learned lexicon.
func (m *Manager) Provider() *LearnedProvider {
	return &LearnedProvider{m: m}
}

func (p *LearnedProvider) Learned() (map[string]float64, uint64, error) {
	rows, err := p.m.db.Query(`
		SELECT keyword, sentiment_type, weight
		FROM learned_keywords
		WHERE status = 'approved'`)
	if err != nil {
		return nil, 0, fmt.Errorf("load learned keywords: %w", err)
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var keyword, sentimentType string
		var weight float64
		if err := rows.Scan(&keyword, &sentimentType, &weight); err != nil {
			return nil, 0, err
		}
		weight = math.Abs(weight)
		if sentimentType == "negative" {
			weight = -weight
		}
		weights[keyword] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return weights, hashWeights(weights), nil
}

func hashWeights(weights map[string]float64) uint64 {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%g;", k, weights[k])
	}
	return h.Sum64()
}
