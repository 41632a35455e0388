package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/quangtran/newsense/internal/logging"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	days := fs.Int("days", 30, "Feedback window in days")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	articles, err := st.GetStats()
	if err != nil {
		fatalf("stats: %v", err)
	}

	fmt.Printf("Articles:          %d\n", articles.Total)
	fmt.Printf("Scored:            %d\n", articles.Scored)
	fmt.Printf("Unscored:          %d\n", articles.Unscored)

	if len(articles.ByLabel) > 0 {
		labels := make([]string, 0, len(articles.ByLabel))
		for label := range articles.ByLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		fmt.Println("\nBy label:")
		for _, label := range labels {
			fmt.Printf("  %-18s %d\n", label, articles.ByLabel[label])
		}
	}

	lm := newLearning(st)
	fb, err := lm.Stats(*days)
	if err != nil {
		fatalf("stats: feedback: %v", err)
	}
	fmt.Printf("\nFeedback (last %d days):\n", *days)
	fmt.Printf("  Corrections:      %d\n", fb.Total)
	if fb.Total > 0 {
		fmt.Printf("  Within 0.2:       %d (%.1f%%)\n", fb.Accurate, fb.Accuracy)
		fmt.Printf("  Mean abs error:   %.3f\n", fb.AvgError)
	}

	engine := newEngine(cfg, st, lm)
	qs, err := engine.QueueStats(today())
	if err != nil {
		fatalf("stats: queue: %v", err)
	}
	fmt.Printf("\nToday's queue (%s):\n", today())
	fmt.Printf("  Total:            %d\n", qs.Total)
	fmt.Printf("  Pending:          %d\n", qs.Pending)
	fmt.Printf("  Labeled:          %d\n", qs.Labeled)
	fmt.Printf("  Skipped:          %d\n", qs.Skipped)
	if qs.Total > 0 {
		fmt.Printf("  Avg uncertainty:  %.3f\n", qs.AvgUncertainty)
		fmt.Printf("  Max uncertainty:  %.3f\n", qs.MaxUncertainty)
	}
}
