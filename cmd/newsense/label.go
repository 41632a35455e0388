package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
)

func runLabel() {
	fs := flag.NewFlagSet("label", flag.ExitOnError)
	id := fs.Int64("id", 0, "Queue item id")
	score := fs.Float64("score", 0, "Corrected score in [-1, 1]")
	comment := fs.String("comment", "", "Optional note")
	fs.Parse(os.Args[1:])

	if *id <= 0 {
		fatalf("usage: newsense label --id N --score S [--comment ...]")
	}
	if *score < -1 || *score > 1 {
		fatalf("label: score %v outside [-1, 1]", *score)
	}

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	engine := newEngine(cfg, st, lm)

	item, err := engine.ItemByID(*id)
	if err != nil {
		fatalf("label: %v", err)
	}
	// A dangling article reference is tolerated; the queue keeps its own
	// copy of the title.
	if a, err := st.GetArticle(item.NewsID); err == nil {
		fmt.Printf("%s\n  %s | %s | %s\n", a.Title, a.CrawlDate, a.Source, a.URL)
	} else {
		fmt.Printf("%s\n  %s\n", item.Title, item.CrawlDate)
	}
	fmt.Printf("  predicted %+.3f %s, uncertainty %.3f\n", item.FinalScore, item.FinalLabel, item.Uncertainty)

	label := lexicon.LabelFor(*score)
	feedbackID, err := engine.SubmitLabel(*id, *score, label, *comment)
	if err != nil {
		fatalf("label: %v", err)
	}

	fmt.Printf("Labeled queue item %d as %+.3f %s (feedback %d)\n", *id, *score, label, feedbackID)
}

func runSkip() {
	fs := flag.NewFlagSet("skip", flag.ExitOnError)
	id := fs.Int64("id", 0, "Queue item id")
	fs.Parse(os.Args[1:])

	if *id <= 0 {
		fatalf("usage: newsense skip --id N")
	}

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	engine := newEngine(cfg, st, lm)

	if err := engine.Skip(*id); err != nil {
		fatalf("skip: %v", err)
	}
	fmt.Printf("Skipped queue item %d\n", *id)
}
