package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/quangtran/newsense/internal/batch"
	"github.com/quangtran/newsense/internal/brain"
	"github.com/quangtran/newsense/internal/config"
	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/store"
)

// newEvaluator wires the LLM evaluator from config, or fatals when the
// provider is not configured.
func newEvaluator(cfg *config.Config, st *store.Store, lm *learning.Manager) *batch.Evaluator {
	if !cfg.LLM.Enabled {
		fatalf("llm: evaluation is disabled; set llm.enabled in %s", config.ConfigPath())
	}
	if cfg.LLM.APIKey == "" {
		fatalf("llm: no API key; set llm.api_key in %s or export OPENAI_API_KEY", config.ConfigPath())
	}

	provider := brain.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.Endpoint, cfg.LLM.Model)
	eval, err := batch.NewEvaluator(st.DB(), provider, lm,
		batch.WithEvalBatchSize(cfg.LLM.BatchSize),
		batch.WithRateLimit(cfg.LLM.RatePerMinute),
	)
	if err != nil {
		fatalf("llm: %v", err)
	}
	return eval
}

func runLLMEval() {
	fs := flag.NewFlagSet("llm-eval", flag.ExitOnError)
	days := fs.Int("days", 7, "How many days of articles to consider")
	limit := fs.Int("limit", 100, "Max articles to evaluate")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	eval := newEvaluator(cfg, st, lm)

	res, err := eval.EvaluateHighUncertainty(context.Background(), *days, *limit)
	if err != nil {
		fatalf("llm-eval: %v", err)
	}

	fmt.Printf("Candidates %d, evaluated %d, failed %d\n", res.Candidates, res.Evaluated, res.Failed)
	for _, ev := range res.Evaluations {
		fmt.Printf("  %+.2f %-8s c=%.2f %s\n", ev.Score, ev.Label, ev.Confidence, truncate(ev.Title, 70))
	}

	stats, err := eval.Stats()
	if err != nil {
		fatalf("llm-eval: stats: %v", err)
	}
	fmt.Printf("Stored verdicts: %d (%d synced), avg confidence %.2f\n",
		stats.Total, stats.Synced, stats.AvgConfidence)
}

func runLLMSync() {
	fs := flag.NewFlagSet("llm-sync", flag.ExitOnError)
	minConfidence := fs.Float64("min-confidence", 0, "Confidence floor (default from config)")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	eval := newEvaluator(cfg, st, lm)

	floor := *minConfidence
	if floor <= 0 {
		floor = cfg.LLM.MinConfidence
	}

	synced, err := eval.SyncToFeedback(floor)
	if err != nil {
		fatalf("llm-sync: %v", err)
	}
	fmt.Printf("Synced %d verdicts into feedback (confidence >= %.2f)\n", synced, floor)
}
