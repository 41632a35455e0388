package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quangtran/newsense/internal/brain"
	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/logging"
)

// Evaluator defaults.
const (
	DefaultEvalBatchSize = 15
	DefaultEvalThreshold = 0.35
	evalMaxTokens        = 2048
)

const systemPrompt = `Bạn là chuyên gia phân tích cảm xúc tin tức tài chính Việt Nam.
Nhiệm vụ: Đánh giá cảm xúc (sentiment) của từng tiêu đề tin tức về chứng khoán và tài chính.

Quy tắc chấm điểm:
- score từ -1.0 đến 1.0 (âm = tiêu cực, dương = tích cực, 0 = trung lập)
- confidence từ 0.0 đến 1.0 (mức độ chắc chắn của đánh giá)
- label: "Positive" (score > 0.1), "Negative" (score < -0.1), "Neutral" (còn lại)

Dấu hiệu tích cực: tăng, lãi, tốt, mạnh, phục hồi, kỳ vọng cao, đột phá, đỉnh cao
Dấu hiệu tiêu cực: giảm, lỗ, xấu, yếu, rủi ro, lo ngại, áp lực, đáy, mất

Trả về JSON array với mỗi phần tử có dạng:
{"idx": <index>, "score": <float>, "label": <str>, "confidence": <float>, "reasoning": <str ngắn gọn>}
`

const batchTemplate = `Đánh giá sentiment cho %d tiêu đề tin tức sau:

%s

Trả về JSON array (đúng format, không giải thích thêm):`

// Evaluator batches high-uncertainty queue items through an LLM and keeps
// the verdicts in sentiment_llm_evaluations. High-confidence verdicts can
// then be folded into the feedback table, where they are treated exactly
// like human corrections.
type Evaluator struct {
	db        *sql.DB
	provider  brain.Provider
	feedback  *learning.Manager
	limiter   *rate.Limiter
	batchSize int
	threshold float64
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvalBatchSize sets how many titles go into one LLM call.
func WithEvalBatchSize(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithEvalThreshold sets the minimum queue uncertainty worth spending an
// LLM call on.
func WithEvalThreshold(t float64) EvaluatorOption {
	return func(e *Evaluator) { e.threshold = t }
}

// WithRateLimit caps LLM calls per minute. Zero or negative disables the
// limiter.
func WithRateLimit(perMinute int) EvaluatorOption {
	return func(e *Evaluator) {
		if perMinute > 0 {
			e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// NewEvaluator prepares the evaluation table on db.
func NewEvaluator(db *sql.DB, provider brain.Provider, feedback *learning.Manager, opts ...EvaluatorOption) (*Evaluator, error) {
	e := &Evaluator{
		db:        db,
		provider:  provider,
		feedback:  feedback,
		batchSize: DefaultEvalBatchSize,
		threshold: DefaultEvalThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.initTables(); err != nil {
		return nil, fmt.Errorf("init evaluation tables: %w", err)
	}
	return e, nil
}

func (e *Evaluator) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sentiment_llm_evaluations (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			news_id            INTEGER,
			title              TEXT NOT NULL,
			llm_score          REAL NOT NULL,
			llm_label          TEXT NOT NULL,
			confidence         REAL DEFAULT 0.5,
			reasoning          TEXT,
			model_used         TEXT,
			batch_id           TEXT,
			evaluated_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			synced_to_feedback BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_eval_news_id
			ON sentiment_llm_evaluations(news_id)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_eval_synced
			ON sentiment_llm_evaluations(synced_to_feedback)`,
	}
	for _, stmt := range stmts {
		if _, err := e.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Candidate is one article queued for LLM evaluation.
type Candidate struct {
	NewsID int64
	Title  string
}

// Evaluation is one LLM verdict on a title.
type Evaluation struct {
	NewsID     int64
	Title      string
	Score      float64
	Label      string
	Confidence float64
	Reasoning  string
	Model      string
}

// EvalResult summarizes one evaluation run.
type EvalResult struct {
	Candidates  int
	Evaluated   int
	Failed      int
	Evaluations []Evaluation
}

// EvaluateHighUncertainty pulls pending queue items with uncertainty at or
// above the threshold that have not been evaluated yet, and runs them
// through the provider in batches. Falls back to recent unevaluated
// articles when the queue has nothing to offer.
func (e *Evaluator) EvaluateHighUncertainty(ctx context.Context, daysBack, limit int) (EvalResult, error) {
	if !e.provider.Available() {
		return EvalResult{}, fmt.Errorf("llm provider %q not configured", e.provider.Name())
	}
	if daysBack <= 0 {
		daysBack = 7
	}
	if limit <= 0 {
		limit = 100
	}

	candidates, err := e.fetchCandidates(daysBack, limit)
	if err != nil {
		return EvalResult{}, err
	}
	if len(candidates) == 0 {
		logging.Info("no high-uncertainty articles to evaluate")
		return EvalResult{}, nil
	}

	logging.Info("evaluating high-uncertainty articles",
		"count", len(candidates), "threshold", e.threshold)
	return e.EvaluateBatch(ctx, candidates)
}

// EvaluateBatch runs the given candidates through the provider in chunks
// of the configured batch size. Already-evaluated articles are skipped.
// A failed chunk is logged and counted; the run continues.
func (e *Evaluator) EvaluateBatch(ctx context.Context, candidates []Candidate) (EvalResult, error) {
	res := EvalResult{Candidates: len(candidates)}
	batchID := time.Now().Format("20060102_150405")

	todo := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		cached, err := e.isCached(c.NewsID)
		if err != nil {
			return res, err
		}
		if cached {
			continue
		}
		todo = append(todo, c)
	}

	for start := 0; start < len(todo); start += e.batchSize {
		end := start + e.batchSize
		if end > len(todo) {
			end = len(todo)
		}
		chunk := todo[start:end]

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return res, err
			}
		}

		evals, err := e.callBatch(ctx, chunk, batchID)
		if err != nil {
			logging.Error("llm batch failed", "size", len(chunk), "error", err)
			res.Failed += len(chunk)
			continue
		}
		res.Evaluated += len(evals)
		res.Evaluations = append(res.Evaluations, evals...)
	}

	return res, nil
}

func (e *Evaluator) isCached(newsID int64) (bool, error) {
	var one int
	err := e.db.QueryRow(
		`SELECT 1 FROM sentiment_llm_evaluations WHERE news_id = ? LIMIT 1`,
		newsID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check evaluation cache: %w", err)
	}
	return true, nil
}

func (e *Evaluator) callBatch(ctx context.Context, chunk []Candidate, batchID string) ([]Evaluation, error) {
	var numbered strings.Builder
	for i, c := range chunk {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, c.Title)
	}

	resp, err := e.provider.Generate(ctx, brain.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(batchTemplate, len(chunk), strings.TrimRight(numbered.String(), "\n")),
		MaxTokens:    evalMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	items := parseEvaluations(resp.Content)
	evals := make([]Evaluation, 0, len(items))
	for _, item := range items {
		idx := item.Idx - 1 // model numbers titles from 1
		if idx < 0 || idx >= len(chunk) {
			continue
		}
		label := item.Label
		if label == "" {
			label = "Neutral"
		}
		confidence := 0.5
		if item.Confidence != nil {
			confidence = *item.Confidence
		}
		evals = append(evals, Evaluation{
			NewsID:     chunk[idx].NewsID,
			Title:      chunk[idx].Title,
			Score:      item.Score,
			Label:      label,
			Confidence: confidence,
			Reasoning:  item.Reasoning,
			Model:      resp.Model,
		})
	}

	if err := e.persist(evals, batchID); err != nil {
		return nil, err
	}
	return evals, nil
}

type evalItem struct {
	Idx        int      `json:"idx"`
	Score      float64  `json:"score"`
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// parseEvaluations digs a JSON array of verdicts out of a model response,
// tolerating markdown code fences, wrapper objects, and surrounding prose.
func parseEvaluations(raw string) []evalItem {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var items []evalItem
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapper); err == nil {
		for _, key := range []string{"items", "results", "evaluations"} {
			if inner, ok := wrapper[key]; ok {
				if err := json.Unmarshal(inner, &items); err == nil {
					return items
				}
			}
		}
	}

	if m := jsonArrayRe.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &items); err == nil {
			return items
		}
	}

	snippet := raw
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	logging.Warn("could not parse llm response", "raw", snippet)
	return nil
}

func (e *Evaluator) persist(evals []Evaluation, batchID string) error {
	if len(evals) == 0 {
		return nil
	}
	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sentiment_llm_evaluations
			(news_id, title, llm_score, llm_label, confidence, reasoning, model_used, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range evals {
		var newsID any
		if ev.NewsID > 0 {
			newsID = ev.NewsID
		}
		if _, err := stmt.Exec(newsID, ev.Title, ev.Score, ev.Label,
			ev.Confidence, ev.Reasoning, ev.Model, batchID); err != nil {
			return fmt.Errorf("insert evaluation: %w", err)
		}
	}

	return tx.Commit()
}

func (e *Evaluator) fetchCandidates(daysBack, limit int) ([]Candidate, error) {
	rows, err := e.db.Query(`
		SELECT lq.news_id, a.title
		FROM labeling_queue lq
		JOIN articles a ON a.id = lq.news_id
		WHERE lq.uncertainty_score >= ?
			AND lq.status = 'pending'
			AND a.crawl_date >= date('now', '-' || ? || ' days')
			AND lq.news_id NOT IN (
				SELECT news_id FROM sentiment_llm_evaluations WHERE news_id IS NOT NULL
			)
		ORDER BY lq.uncertainty_score DESC
		LIMIT ?`, e.threshold, daysBack, limit)
	if err != nil {
		return nil, fmt.Errorf("query queue candidates: %w", err)
	}
	candidates, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// Queue is empty or fully evaluated. Fall back to recent articles.
	rows, err = e.db.Query(`
		SELECT a.id, a.title
		FROM articles a
		WHERE a.crawl_date >= date('now', '-' || ? || ' days')
			AND a.id NOT IN (
				SELECT news_id FROM sentiment_llm_evaluations WHERE news_id IS NOT NULL
			)
		ORDER BY a.id DESC
		LIMIT ?`, daysBack, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent candidates: %w", err)
	}
	return scanCandidates(rows)
}

func scanCandidates(rows *sql.Rows) ([]Candidate, error) {
	defer rows.Close()
	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.NewsID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SyncToFeedback folds unsynced evaluations with confidence at or above
// minConfidence into the feedback table, with the LLM acting as the
// annotator (predicted and user values both carry the LLM verdict).
// Returns the number of evaluations synced.
func (e *Evaluator) SyncToFeedback(minConfidence float64) (int, error) {
	rows, err := e.db.Query(`
		SELECT id, news_id, title, llm_score, llm_label, confidence, model_used
		FROM sentiment_llm_evaluations
		WHERE synced_to_feedback = 0 AND confidence >= ?`, minConfidence)
	if err != nil {
		return 0, fmt.Errorf("query unsynced evaluations: %w", err)
	}

	type pending struct {
		id         int64
		newsID     sql.NullInt64
		title      string
		score      float64
		label      string
		confidence float64
		model      sql.NullString
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.newsID, &p.title, &p.score, &p.label,
			&p.confidence, &p.model); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan evaluation: %w", err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	tx, err := e.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	synced := 0
	for _, p := range todo {
		fb := learning.Feedback{
			NewsID:         p.newsID.Int64,
			Title:          p.title,
			PredictedScore: p.score,
			PredictedLabel: p.label,
			UserScore:      p.score,
			UserLabel:      p.label,
			Comment:        fmt.Sprintf("[LLM:%s] confidence=%.2f", p.model.String, p.confidence),
		}
		if _, err := e.feedback.RecordFeedbackTx(tx, fb); err != nil {
			return 0, fmt.Errorf("record llm feedback: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE sentiment_llm_evaluations SET synced_to_feedback = 1 WHERE id = ?`,
			p.id); err != nil {
			return 0, fmt.Errorf("mark synced: %w", err)
		}
		synced++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if synced > 0 {
		logging.Info("synced llm evaluations to feedback", "count", synced)
	}
	return synced, nil
}

// EvalStats summarizes stored LLM evaluations.
type EvalStats struct {
	Total         int
	AvgConfidence float64
	Positive      int
	Negative      int
	Neutral       int
	Synced        int
}

// Stats returns aggregate counts over all stored evaluations.
func (e *Evaluator) Stats() (EvalStats, error) {
	var st EvalStats
	var avg sql.NullFloat64
	err := e.db.QueryRow(`
		SELECT COUNT(*),
			AVG(confidence),
			COALESCE(SUM(CASE WHEN llm_label = 'Positive' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN llm_label = 'Negative' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN llm_label = 'Neutral' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN synced_to_feedback = 1 THEN 1 ELSE 0 END), 0)
		FROM sentiment_llm_evaluations
	`).Scan(&st.Total, &avg, &st.Positive, &st.Negative, &st.Neutral, &st.Synced)
	if err != nil {
		return st, fmt.Errorf("evaluation stats: %w", err)
	}
	st.AvgConfidence = avg.Float64
	return st, nil
}
