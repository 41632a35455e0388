package learning

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/quangtran/newsense/internal/logging"
)

// Vietnamese stopwords excluded from mined n-grams. Calendar words and
// the country name dominate headlines without carrying sentiment.
var stopwords = map[string]struct{}{
	"của": {}, "và": {}, "có": {}, "này": {}, "cho": {}, "từ": {},
	"với": {}, "trong": {}, "là": {}, "được": {}, "các": {}, "để": {},
	"một": {}, "về": {}, "đã": {}, "những": {}, "thì": {}, "sẽ": {},
	"như": {}, "trên": {}, "ra": {}, "tại": {}, "hay": {}, "theo": {},
	"đến": {}, "hôm": {}, "nay": {}, "ngày": {}, "tháng": {}, "năm": {},
	"giờ": {}, "phút": {}, "vn": {}, "việt": {}, "nam": {}, "việt nam": {},
	"đang": {}, "bị": {}, "sau": {}, "trước": {},
}

// mineThreshold is the minimum |user_score| for a correction to contribute
// n-grams; weaker corrections carry too little direction to mine.
const mineThreshold = 0.2

// Suggestion is one mined keyword candidate awaiting review.
type Suggestion struct {
	ID              int64
	Keyword         string
	SentimentType   string
	SuggestedWeight float64
	Frequency       int
	Examples        []string
}

func tokenize(text string) []string {
	var words []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

// ngrams joins n consecutive words, skipping very short results.
func ngrams(words []string, n int) []string {
	var out []string
	for i := 0; i+n <= len(words); i++ {
		gram := strings.Join(words[i:i+n], " ")
		if len([]rune(gram)) > 3 {
			out = append(out, gram)
		}
	}
	return out
}

func contentWords(title string) []string {
	words := tokenize(title)
	kept := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return kept
}

// MineSuggestions scans recent feedback for recurring bigrams and trigrams
// and files the frequent ones as suggestions. Returns what it filed,
// most frequent first. Re-running only ever adds new (keyword, sign) pairs.
func (m *Manager) MineSuggestions(minFrequency, lookbackDays int) ([]Suggestion, error) {
	rows, err := m.db.Query(`
		SELECT news_title, user_score
		FROM sentiment_feedback
		WHERE created_at >= datetime('now', '-' || ? || ' days')
		  AND ABS(user_score) >= ?`, lookbackDays, mineThreshold)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	defer rows.Close()

	counts := map[string]map[string]int{"positive": {}, "negative": {}}
	examples := map[string]map[string][]string{"positive": {}, "negative": {}}

	for rows.Next() {
		var title string
		var score float64
		if err := rows.Scan(&title, &score); err != nil {
			return nil, err
		}
		sign := "positive"
		if score < 0 {
			sign = "negative"
		}

		words := contentWords(title)
		for _, gram := range append(ngrams(words, 2), ngrams(words, 3)...) {
			counts[sign][gram]++
			if len(examples[sign][gram]) < 3 {
				examples[sign][gram] = append(examples[sign][gram], title)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var mined []Suggestion
	for sign, grams := range counts {
		for gram, freq := range grams {
			if freq < minFrequency {
				continue
			}
			mined = append(mined, Suggestion{
				Keyword:         gram,
				SentimentType:   sign,
				SuggestedWeight: math.Min(1.0, 0.3+float64(freq)/20),
				Frequency:       freq,
				Examples:        examples[sign][gram],
			})
		}
	}
	sort.Slice(mined, func(i, j int) bool {
		if mined[i].Frequency != mined[j].Frequency {
			return mined[i].Frequency > mined[j].Frequency
		}
		return mined[i].Keyword < mined[j].Keyword
	})

	for _, s := range mined {
		titles, err := json.Marshal(s.Examples)
		if err != nil {
			return nil, err
		}
		_, err = m.db.Exec(`
			INSERT OR IGNORE INTO keyword_suggestions
				(keyword, sentiment_type, suggested_weight, co_occurrence_count, supporting_titles)
			VALUES (?, ?, ?, ?, ?)`,
			s.Keyword, s.SentimentType, s.SuggestedWeight, s.Frequency, string(titles))
		if err != nil {
			return nil, fmt.Errorf("file suggestion %q: %w", s.Keyword, err)
		}
	}

	logging.Info("mined keyword suggestions", "count", len(mined),
		"min_frequency", minFrequency, "lookback_days", lookbackDays)
	return mined, nil
}

// PendingSuggestions lists unreviewed suggestions, most supported first.
func (m *Manager) PendingSuggestions(limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := m.db.Query(`
		SELECT id, keyword, sentiment_type, suggested_weight,
		       co_occurrence_count, supporting_titles
		FROM keyword_suggestions
		WHERE reviewed = 0
		ORDER BY co_occurrence_count DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var s Suggestion
		var titles string
		if err := rows.Scan(&s.ID, &s.Keyword, &s.SentimentType,
			&s.SuggestedWeight, &s.Frequency, &titles); err != nil {
			return nil, err
		}
		if titles != "" {
			if err := json.Unmarshal([]byte(titles), &s.Examples); err != nil {
				logging.Warn("bad supporting titles", "suggestion_id", s.ID, "error", err)
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AggregateApproved promotes well-supported unreviewed suggestions into the
// learned lexicon without a human in the loop.
//
// For each (keyword, sign) group: confidence = min(1, freq/10) *
// min(1, maxCooccur/5); promoted weight = min(0.8, avgWeight *
// (0.5 + confidence*0.5)). Groups at or above minConfidence are promoted
// and their suggestions marked reviewed. The 0.8 cap keeps auto-learned
// phrases from ever outranking hand-tuned lexicon entries.
func (m *Manager) AggregateApproved(minConfidence float64) (int, error) {
	rows, err := m.db.Query(`
		SELECT keyword, sentiment_type,
		       SUM(co_occurrence_count), MAX(co_occurrence_count), AVG(suggested_weight)
		FROM keyword_suggestions
		WHERE reviewed = 0
		GROUP BY keyword, sentiment_type`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type candidate struct {
		keyword, sign      string
		confidence, weight float64
		frequency          int
	}
	var promote []candidate
	for rows.Next() {
		var c candidate
		var maxCooccur int
		var avgWeight float64
		if err := rows.Scan(&c.keyword, &c.sign, &c.frequency, &maxCooccur, &avgWeight); err != nil {
			return 0, err
		}
		c.confidence = math.Min(1, float64(c.frequency)/10) * math.Min(1, float64(maxCooccur)/5)
		c.weight = math.Min(0.8, avgWeight*(0.5+c.confidence*0.5))
		if c.confidence >= minConfidence {
			promote = append(promote, c)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	tx, err := m.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, c := range promote {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO learned_keywords
				(keyword, sentiment_type, weight, confidence, frequency, source, status, last_seen)
			VALUES (?, ?, ?, ?, ?, 'auto_extracted', 'approved', CURRENT_TIMESTAMP)`,
			c.keyword, c.sign, c.weight, c.confidence, c.frequency)
		if err != nil {
			return 0, fmt.Errorf("promote %q: %w", c.keyword, err)
		}
		_, err = tx.Exec(`
			UPDATE keyword_suggestions SET reviewed = 1
			WHERE keyword = ? AND sentiment_type = ?`, c.keyword, c.sign)
		if err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if len(promote) > 0 {
		logging.Info("auto-promoted keywords", "count", len(promote))
	}
	return len(promote), nil
}
