package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/quangtran/newsense/internal/batch"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
)

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	size := fs.Int("batch", 0, "Articles per scoring batch (default from config)")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	scorer := newScorer(cfg, lm)

	n := *size
	if n <= 0 {
		n = cfg.Scoring.BatchSize
	}

	res, err := batch.NewScorer(st, scorer).Run(context.Background(), n)
	if err != nil {
		fatalf("score: %v", err)
	}

	fmt.Printf("Scored %d articles in %d batches\n", res.Scored, res.Batches)
	fmt.Printf("Bands: %s\n", lexicon.BandDefinition)
}
