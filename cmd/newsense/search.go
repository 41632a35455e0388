package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/store"
	"github.com/quangtran/newsense/internal/ticker"
)

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	symbols := fs.String("ticker", "", "Comma-separated ticker or sector symbols (VIC,bank,...)")
	limit := fs.Int("limit", 20, "Max results")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	var articles []store.Article
	var err error

	switch {
	case *symbols != "":
		query := ticker.FTSQuery(*symbols)
		if query == "" {
			fatalf("search: no valid symbols in %q", *symbols)
		}
		articles, err = st.SearchFTS(query, *limit)
		if err == nil && len(articles) == 0 {
			// Alias phrases can miss on diacritic variants; LIKE is sloppier
			// but catches them.
			articles, err = st.SearchLike(ticker.LikePatterns(*symbols), *limit)
		}

	case fs.NArg() > 0:
		articles, err = st.SearchFTS(strings.Join(fs.Args(), " "), *limit)

	default:
		fatalf("usage: newsense search [--limit N] <query>\n       newsense search --ticker VIC[,bank,...]")
	}

	if err != nil {
		fatalf("search: %v", err)
	}
	if len(articles) == 0 {
		fmt.Println("No matches.")
		return
	}

	for i, a := range articles {
		sentiment := "unscored"
		if a.Sentiment != nil {
			sentiment = fmt.Sprintf("%+.3f %s", *a.Sentiment, a.SentimentLabel)
		}
		fmt.Printf("%2d. [%s] %s\n    %s | %s\n", i+1, sentiment, truncate(a.Title, 80), a.CrawlDate, a.Source)
	}
}
