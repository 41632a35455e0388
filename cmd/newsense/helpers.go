package main

import (
	"fmt"
	"os"
	"time"

	"github.com/quangtran/newsense/internal/config"
	"github.com/quangtran/newsense/internal/labeling"
	"github.com/quangtran/newsense/internal/learning"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/store"
	"github.com/quangtran/newsense/internal/vivader"
)

// loadConfig loads ~/.newsense/config.json, filling gaps from defaults and
// the environment, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}
	cfg.AutoPopulateFromEnv()
	return cfg
}

// openDB opens the configured store or fatals.
func openDB(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logging.Fatal("failed to open database", "path", cfg.DBPath, "error", err)
	}
	return st
}

// newLearning prepares the learning tables or fatals.
func newLearning(st *store.Store) *learning.Manager {
	lm, err := learning.New(st.DB())
	if err != nil {
		logging.Fatal("failed to init learning tables", "error", err)
	}
	return lm
}

// newScorer builds the lexicon scorer with the learned lexicon behind a
// cache, and the directional classifier when configured.
func newScorer(cfg *config.Config, lm *learning.Manager) *lexicon.Scorer {
	ttl := time.Duration(cfg.Scoring.CacheTTLSeconds) * time.Second
	opts := []lexicon.Option{
		lexicon.WithLearned(lexicon.Cached(lm.Provider(), ttl)),
	}
	if cfg.Scoring.UseSecondary {
		opts = append(opts, lexicon.WithSecondary(vivader.New(nil)))
	}
	return lexicon.NewScorer(opts...)
}

// newEngine builds the labeling engine over the same scorer stack.
func newEngine(cfg *config.Config, st *store.Store, lm *learning.Manager) *labeling.Engine {
	var opts []labeling.Option
	if cfg.Scoring.UseSecondary {
		opts = append(opts, labeling.WithSecondary(vivader.New(nil)))
	}
	if cfg.Labeling.UncertaintyThreshold > 0 {
		opts = append(opts, labeling.WithMinUncertainty(cfg.Labeling.UncertaintyThreshold))
	}
	engine, err := labeling.NewEngine(st.DB(), newScorer(cfg, lm), lm, opts...)
	if err != nil {
		logging.Fatal("failed to init labeling queue", "error", err)
	}
	return engine
}

// today returns the current date in the queue's YYYY-MM-DD format.
func today() string {
	return time.Now().Format("2006-01-02")
}

// fatalf prints to stderr and exits. For usage errors, where a log line
// would be noise.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
