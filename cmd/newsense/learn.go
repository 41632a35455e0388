package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/quangtran/newsense/internal/logging"
)

func runMine() {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	minFreq := fs.Int("min-freq", 2, "Minimum keyword frequency across corrections")
	days := fs.Int("days", 30, "Feedback lookback window in days")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	mined, err := lm.MineSuggestions(*minFreq, *days)
	if err != nil {
		fatalf("mine: %v", err)
	}

	if len(mined) == 0 {
		fmt.Println("No new suggestions.")
		return
	}
	fmt.Printf("Mined %d suggestions:\n", len(mined))
	for _, s := range mined {
		fmt.Printf("  %-24s %-8s weight %.2f (seen %d times)\n",
			s.Keyword, s.SentimentType, s.SuggestedWeight, s.Frequency)
	}
}

func runSuggestions() {
	fs := flag.NewFlagSet("suggestions", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Max suggestions to list")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	pending, err := lm.PendingSuggestions(*limit)
	if err != nil {
		fatalf("suggestions: %v", err)
	}

	if len(pending) == 0 {
		fmt.Println("No pending suggestions.")
		return
	}
	for _, s := range pending {
		fmt.Printf("#%-4d %-24s %-8s weight %.2f (seen %d times)\n",
			s.ID, s.Keyword, s.SentimentType, s.SuggestedWeight, s.Frequency)
		if len(s.Examples) > 0 {
			fmt.Printf("      e.g. %s\n", truncate(strings.Join(s.Examples, " | "), 100))
		}
	}
}

func runApprove() {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	keyword := fs.String("keyword", "", "Phrase to add to the learned lexicon")
	sentiment := fs.String("type", "", "Sentiment type: positive or negative")
	weight := fs.Float64("weight", 0.5, "Weight in (0, 1]")
	reject := fs.Int64("reject", 0, "Reject a suggestion by id instead")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)

	if *reject > 0 {
		if err := lm.Reject(*reject); err != nil {
			fatalf("approve: %v", err)
		}
		fmt.Printf("Rejected suggestion %d\n", *reject)
		return
	}

	if *keyword == "" || *sentiment == "" {
		fatalf("usage: newsense approve --keyword <phrase> --type <positive|negative> [--weight W]\n       newsense approve --reject <id>")
	}

	if err := lm.Approve(*keyword, *sentiment, *weight); err != nil {
		fatalf("approve: %v", err)
	}
	fmt.Printf("Approved %q as %s with weight %.2f\n", *keyword, *sentiment, *weight)
}

func runAggregate() {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	minConfidence := fs.Float64("min-confidence", 0.3, "Confidence floor for automatic promotion")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	promoted, err := lm.AggregateApproved(*minConfidence)
	if err != nil {
		fatalf("aggregate: %v", err)
	}
	fmt.Printf("Promoted %d keywords into the learned lexicon\n", promoted)
}
