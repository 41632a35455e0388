package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/quangtran/newsense/internal/logging"
)

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	from := fs.String("from", "", "Start crawl date, inclusive (YYYY-MM-DD)")
	to := fs.String("to", "", "End crawl date, inclusive (YYYY-MM-DD)")
	source := fs.String("source", "", "Restrict to one source")
	limit := fs.Int("limit", 50, "Max results")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	articles, err := st.GetFiltered(*from, *to, *source, *limit)
	if err != nil {
		fatalf("list: %v", err)
	}
	if len(articles) == 0 {
		fmt.Println("No articles.")
		return
	}

	for i, a := range articles {
		sentiment := "unscored"
		if a.Sentiment != nil {
			sentiment = fmt.Sprintf("%+.3f %s", *a.Sentiment, a.SentimentLabel)
		}
		fmt.Printf("%2d. [%s] %s\n    %s | %s", i+1, sentiment, truncate(a.Title, 80), a.CrawlDate, a.Source)
		if a.Ranks != "" {
			fmt.Printf(" | ranks %s", a.Ranks)
		}
		fmt.Println()
	}
}
