package labeling

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
)

var (
	// ErrNotFound is returned for operations against a missing queue item.
	ErrNotFound = errors.New("queue item not found")
	// ErrAlreadyLabeled is returned when a label is submitted twice.
	ErrAlreadyLabeled = errors.New("queue item already labeled")
)

// FastText is an optional third classifier folded into the uncertainty
// computation when available. ok is false when the model has no opinion.
type FastText interface {
	Predict(title string) (label lexicon.Label, prob float64, ok bool)
}

// Engine owns the labeling queue and the uncertainty assessment feeding it.
type Engine struct {
	db        *sql.DB
	scorer    *lexicon.Scorer
	secondary lexicon.Directional
	feedback  *learning.Manager
	fasttext  FastText

	minUncertainty float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSecondary supplies the independent classifier used for the
// signal-conflict dimension. It should be the same classifier the scorer
// blends, queried separately for its raw direction.
func WithSecondary(d lexicon.Directional) Option {
	return func(e *Engine) { e.secondary = d }
}

// WithFastText enables the fourth uncertainty signal.
func WithFastText(ft FastText) Option {
	return func(e *Engine) { e.fasttext = ft }
}

// WithMinUncertainty drops candidates below the threshold instead of
// queueing them. Zero keeps every candidate eligible.
func WithMinUncertainty(t float64) Option {
	return func(e *Engine) { e.minUncertainty = t }
}

// NewEngine prepares the queue table on db.
func NewEngine(db *sql.DB, scorer *lexicon.Scorer, feedback *learning.Manager, opts ...Option) (*Engine, error) {
	e := &Engine{db: db, scorer: scorer, feedback: feedback}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.initTables(); err != nil {
		return nil, fmt.Errorf("init labeling tables: %w", err)
	}
	return e, nil
}

func (e *Engine) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS labeling_queue (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			news_id               INTEGER NOT NULL,
			news_title            TEXT NOT NULL,
			news_url              TEXT DEFAULT '',
			crawl_date            TEXT NOT NULL,
			lexicon_score         REAL NOT NULL,
			secondary_label       TEXT,
			final_score           REAL NOT NULL,
			final_label           TEXT NOT NULL,
			uncertainty_score     REAL NOT NULL,
			signal_conflict       REAL NOT NULL,
			magnitude_uncertainty REAL NOT NULL,
			match_sparsity        REAL NOT NULL,
			queue_date            TEXT NOT NULL,
			status                TEXT NOT NULL DEFAULT 'pending',
			priority_rank         INTEGER,
			user_score            REAL,
			user_label            TEXT,
			user_comment          TEXT,
			feedback_id           INTEGER,
			labeled_at            TIMESTAMP,
			created_at            TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_lq_unique_article
			ON labeling_queue(news_id, queue_date)`,
		`CREATE INDEX IF NOT EXISTS idx_lq_queue_date ON labeling_queue(queue_date)`,
		`CREATE INDEX IF NOT EXISTS idx_lq_status ON labeling_queue(status)`,
	}
	for _, stmt := range stmts {
		if _, err := e.db.Exec(stmt); err != nil {
			return err
		}
	}

	// Queues created before the secondary direction was recorded lack
	// the column.
	var n int
	err := e.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('labeling_queue') WHERE name = 'secondary_label'`).
		Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := e.db.Exec(`ALTER TABLE labeling_queue ADD COLUMN secondary_label TEXT`); err != nil {
			return err
		}
	}
	return nil
}

// Assess computes the uncertainty breakdown for one title.
func (e *Engine) Assess(title string) Assessment {
	res := e.scorer.Score(title)

	var sum float64
	for _, m := range res.Matches {
		sum += m.Weight
	}
	var lex float64
	if len(res.Matches) > 0 {
		lex = math.Tanh(sum * 0.6)
	}

	var secondary *float64
	var secondaryLabel string
	if e.secondary != nil {
		if c, ok := e.secondary.Direction(title); ok {
			secondary = &c
			secondaryLabel = "positive"
			if c < 0 {
				secondaryLabel = "negative"
			}
		}
	}

	a := Assessment{
		LexiconScore:   lex,
		SecondaryLabel: secondaryLabel,
		FinalScore:     res.Compound,
		FinalLabel:     res.Label,
		Matches:        len(res.Matches),
	}
	a.SignalConflict = conflictScore(lex, secondary)
	a.MagnitudeUncertainty = magnitudeScore(res.Compound)
	a.MatchSparsity = sparsityScore(len(res.Matches))

	if e.fasttext != nil {
		if label, prob, ok := e.fasttext.Predict(title); ok {
			a.fastText = true
			a.FastTextConflict = fasttextConflictScore(label == res.Label, prob)
		}
	}
	a.compose()
	return a
}

// QueueResult reports the outcome of a daily queue build.
type QueueResult struct {
	Inserted        int
	TotalCandidates int
	AlreadyQueued   int
	Date            string
}

// Item is one queue entry joined with its stored prediction.
type Item struct {
	ID                   int64
	NewsID               int64
	Title                string
	URL                  string
	CrawlDate            string
	LexiconScore         float64
	SecondaryLabel       string
	FinalScore           float64
	FinalLabel           lexicon.Label
	Uncertainty          float64
	SignalConflict       float64
	MagnitudeUncertainty float64
	MatchSparsity        float64
	QueueDate            string
	Status               string
	PriorityRank         int
	UserScore            *float64
	UserLabel            string
	Comment              string
	FeedbackID           *int64
	LabeledAt            *time.Time
}

// BuildDailyQueue assesses every article crawled on date that is not yet
// queued, and inserts the limit most uncertain as pending items with a
// 1-based priority rank. Safe to re-run: the (news_id, queue_date)
// uniqueness means repeat builds only ever add articles.
func (e *Engine) BuildDailyQueue(date string, limit int) (QueueResult, error) {
	result := QueueResult{Date: date}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		logging.Warn("malformed queue date, nothing to build", "date", date)
		return result, nil
	}
	if limit <= 0 {
		limit = 25
	}

	err := e.db.QueryRow(
		`SELECT COUNT(*) FROM articles WHERE crawl_date = ?`, date).
		Scan(&result.TotalCandidates)
	if err != nil {
		return result, fmt.Errorf("count candidates: %w", err)
	}

	rows, err := e.db.Query(`
		SELECT id, title, url
		FROM articles
		WHERE crawl_date = ?
		  AND id NOT IN (SELECT news_id FROM labeling_queue WHERE queue_date = ?)`,
		date, date)
	if err != nil {
		return result, fmt.Errorf("select candidates: %w", err)
	}

	type candidate struct {
		id         int64
		title, url string
		assessment Assessment
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.title, &c.url); err != nil {
			rows.Close()
			return result, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return result, err
	}
	rows.Close()

	result.AlreadyQueued = result.TotalCandidates - len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	for i := range candidates {
		candidates[i].assessment = e.Assess(candidates[i].title)
	}
	if e.minUncertainty > 0 {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.assessment.Uncertainty >= e.minUncertainty {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].assessment.Uncertainty > candidates[j].assessment.Uncertainty
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	tx, err := e.db.Begin()
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	for rank, c := range candidates {
		a := c.assessment
		var secondary any
		if a.SecondaryLabel != "" {
			secondary = a.SecondaryLabel
		}
		res, err := tx.Exec(`
			INSERT OR IGNORE INTO labeling_queue (
				news_id, news_title, news_url, crawl_date,
				lexicon_score, secondary_label, final_score, final_label,
				uncertainty_score, signal_conflict, magnitude_uncertainty,
				match_sparsity, queue_date, status, priority_rank
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)`,
			c.id, c.title, c.url, date,
			a.LexiconScore, secondary, a.FinalScore, string(a.FinalLabel),
			a.Uncertainty, a.SignalConflict, a.MagnitudeUncertainty,
			a.MatchSparsity, date, rank+1)
		if err != nil {
			return result, fmt.Errorf("queue article %d: %w", c.id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return result, err
		}
		result.Inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return result, err
	}

	logging.Info("built labeling queue", "date", date,
		"inserted", result.Inserted, "candidates", result.TotalCandidates,
		"already_queued", result.AlreadyQueued)
	return result, nil
}

const selectItem = `
	SELECT id, news_id, news_title, news_url, crawl_date,
	       lexicon_score, secondary_label, final_score, final_label,
	       uncertainty_score, signal_conflict, magnitude_uncertainty,
	       match_sparsity, queue_date, status, priority_rank,
	       user_score, user_label, user_comment, feedback_id, labeled_at
	FROM labeling_queue`

// Items returns the queue for a date ordered by priority. status narrows
// to pending, labeled, or skipped; empty returns all.
func (e *Engine) Items(date, status string) ([]Item, error) {
	query := selectItem + ` WHERE queue_date = ?`
	args := []any{date}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY priority_rank ASC`

	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// PendingItems is the review queue for a date.
func (e *Engine) PendingItems(date string) ([]Item, error) {
	return e.Items(date, "pending")
}

// ItemByID fetches one queue entry.
func (e *Engine) ItemByID(id int64) (Item, error) {
	it, err := scanItem(e.db.QueryRow(selectItem+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return it, fmt.Errorf("queue item %d: %w", id, ErrNotFound)
	}
	return it, err
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var it Item
	var label string
	var secondary sql.NullString
	var rank sql.NullInt64
	var userScore sql.NullFloat64
	var userLabel, comment sql.NullString
	var feedbackID sql.NullInt64
	var labeledAt sql.NullTime

	err := row.Scan(&it.ID, &it.NewsID, &it.Title, &it.URL, &it.CrawlDate,
		&it.LexiconScore, &secondary, &it.FinalScore, &label,
		&it.Uncertainty, &it.SignalConflict, &it.MagnitudeUncertainty,
		&it.MatchSparsity, &it.QueueDate, &it.Status, &rank,
		&userScore, &userLabel, &comment, &feedbackID, &labeledAt)
	if err != nil {
		return it, err
	}
	it.FinalLabel = lexicon.Label(label)
	it.SecondaryLabel = secondary.String
	it.PriorityRank = int(rank.Int64)
	if userScore.Valid {
		it.UserScore = &userScore.Float64
	}
	it.UserLabel = userLabel.String
	it.Comment = comment.String
	if feedbackID.Valid {
		it.FeedbackID = &feedbackID.Int64
	}
	if labeledAt.Valid {
		t := labeledAt.Time
		it.LabeledAt = &t
	}
	return it, nil
}

// SubmitLabel records a human correction for a pending queue item and
// returns the feedback id it created. The feedback write and the queue
// update are one transaction.
func (e *Engine) SubmitLabel(queueID int64, score float64, label lexicon.Label, comment string) (int64, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	it, err := scanItem(tx.QueryRow(selectItem+` WHERE id = ?`, queueID))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("queue item %d: %w", queueID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if it.Status == "labeled" {
		return 0, fmt.Errorf("queue item %d: %w", queueID, ErrAlreadyLabeled)
	}

	feedbackID, err := e.feedback.RecordFeedbackTx(tx, learning.Feedback{
		NewsID:         it.NewsID,
		Title:          it.Title,
		URL:            it.URL,
		PredictedScore: it.FinalScore,
		PredictedLabel: string(it.FinalLabel),
		UserScore:      score,
		UserLabel:      string(label),
		Comment:        comment,
	})
	if err != nil {
		return 0, fmt.Errorf("record feedback: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE labeling_queue
		SET status = 'labeled', user_score = ?, user_label = ?,
		    user_comment = ?, feedback_id = ?, labeled_at = ?
		WHERE id = ?`,
		score, string(label), comment, feedbackID, time.Now(), queueID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logging.Info("label submitted", "queue_id", queueID,
		"score", score, "label", label, "feedback_id", feedbackID)
	return feedbackID, nil
}

// Skip marks a pending item skipped.
func (e *Engine) Skip(queueID int64) error {
	res, err := e.db.Exec(
		`UPDATE labeling_queue SET status = 'skipped' WHERE id = ? AND status = 'pending'`,
		queueID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("queue item %d: %w", queueID, ErrNotFound)
	}
	return nil
}

// Stats summarizes one day's queue.
type Stats struct {
	Total          int
	Pending        int
	Labeled        int
	Skipped        int
	AvgUncertainty float64
	MaxUncertainty float64
}

// QueueStats reports progress for a date.
func (e *Engine) QueueStats(date string) (Stats, error) {
	var s Stats
	var avg, max sql.NullFloat64
	err := e.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'labeled' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
		       AVG(uncertainty_score), MAX(uncertainty_score)
		FROM labeling_queue
		WHERE queue_date = ?`, date).
		Scan(&s.Total, &s.Pending, &s.Labeled, &s.Skipped, &avg, &max)
	if err != nil {
		return s, err
	}
	s.AvgUncertainty = avg.Float64
	s.MaxUncertainty = max.Float64
	return s, nil
}
