package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/quangtran/newsense/internal/logging"
)

const queueUsage = `usage: newsense queue <build|stats> [flags]

  build   Assess today's articles and queue the most uncertain
  stats   Queue progress for a date
`

func runQueue() {
	if len(os.Args) < 2 {
		fmt.Print(queueUsage)
		os.Exit(1)
	}

	sub := os.Args[1]
	os.Args = os.Args[1:]

	switch sub {
	case "build":
		runQueueBuild()
	case "stats":
		runQueueStats()
	default:
		fmt.Fprintf(os.Stderr, "newsense queue: unknown subcommand %q\n\n", sub)
		fmt.Print(queueUsage)
		os.Exit(1)
	}
}

func runQueueBuild() {
	fs := flag.NewFlagSet("queue build", flag.ExitOnError)
	date := fs.String("date", today(), "Crawl date to queue (YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "Max items to queue (default from config)")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	engine := newEngine(cfg, st, lm)

	n := *limit
	if n <= 0 {
		n = cfg.Labeling.QueueSize
	}

	res, err := engine.BuildDailyQueue(*date, n)
	if err != nil {
		fatalf("queue build: %v", err)
	}

	fmt.Printf("Queue for %s: %d candidates, %d already queued, %d added\n",
		res.Date, res.TotalCandidates, res.AlreadyQueued, res.Inserted)
}

func runQueueStats() {
	fs := flag.NewFlagSet("queue stats", flag.ExitOnError)
	date := fs.String("date", today(), "Queue date (YYYY-MM-DD)")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	engine := newEngine(cfg, st, lm)

	qs, err := engine.QueueStats(*date)
	if err != nil {
		fatalf("queue stats: %v", err)
	}

	fmt.Printf("Queue %s\n", *date)
	fmt.Printf("  Total:            %d\n", qs.Total)
	fmt.Printf("  Pending:          %d\n", qs.Pending)
	fmt.Printf("  Labeled:          %d\n", qs.Labeled)
	fmt.Printf("  Skipped:          %d\n", qs.Skipped)
	if qs.Total > 0 {
		fmt.Printf("  Avg uncertainty:  %.3f\n", qs.AvgUncertainty)
		fmt.Printf("  Max uncertainty:  %.3f\n", qs.MaxUncertainty)
	}

	items, err := engine.PendingItems(*date)
	if err != nil {
		fatalf("queue stats: %v", err)
	}
	if len(items) == 0 {
		return
	}
	fmt.Println("\nPending:")
	for _, it := range items {
		fmt.Printf("  #%-4d u=%.3f %+.3f %-18s %s\n",
			it.ID, it.Uncertainty, it.FinalScore, it.FinalLabel, truncate(it.Title, 60))
	}
}
