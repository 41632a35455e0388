// Package batch runs the offline scoring passes: the lexicon scorer over
// unscored articles, and the optional LLM evaluator over high-uncertainty
// queue items.
package batch

import (
	"context"
	"fmt"

	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/store"
)

// DefaultBatchSize is how many unscored articles each pass pulls.
const DefaultBatchSize = 200

// Scorer drains the unscored-article backlog through the lexicon scorer.
type Scorer struct {
	store  *store.Store
	scorer *lexicon.Scorer
}

// NewScorer pairs a store with a lexicon scorer.
func NewScorer(st *store.Store, sc *lexicon.Scorer) *Scorer {
	return &Scorer{store: st, scorer: sc}
}

// RunResult summarizes one scoring run.
type RunResult struct {
	Scored  int
	Batches int
}

// Run scores unscored articles in batches until none remain or ctx is
// cancelled. Batch size defaults to DefaultBatchSize when non-positive.
func (s *Scorer) Run(ctx context.Context, batchSize int) (RunResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var res RunResult
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		articles, err := s.store.GetUnscored(batchSize)
		if err != nil {
			return res, fmt.Errorf("fetch unscored: %w", err)
		}
		if len(articles) == 0 {
			break
		}

		updates := make([]store.ScoreUpdate, 0, len(articles))
		for _, a := range articles {
			r := s.scorer.Score(a.Title)
			updates = append(updates, store.ScoreUpdate{
				ID:    a.ID,
				Score: r.Compound,
				Label: string(r.Label),
			})
		}

		updated, err := s.store.BatchUpdateSentiment(updates)
		if err != nil {
			return res, fmt.Errorf("write scores: %w", err)
		}
		if updated == 0 {
			// Nothing landed, so the same rows would come straight back.
			logging.Warn("scoring batch updated no rows, stopping",
				"fetched", len(articles))
			break
		}

		res.Scored += updated
		res.Batches++
		logging.Info("scored batch",
			"batch", res.Batches,
			"articles", updated,
			"total", res.Scored)
	}

	return res, nil
}
