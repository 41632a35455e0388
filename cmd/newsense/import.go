package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/store"
)

// importRow is one NDJSON line from a crawler export. Ranks come through
// either as an array of positions or a pre-joined string, depending on
// the crawler.
type importRow struct {
	Source      string          `json:"source"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	URL         string          `json:"url"`
	MobileURL   string          `json:"mobile_url"`
	Ranks       json.RawMessage `json:"ranks"`
	CrawlDate   string          `json:"crawl_date"`
	PublishedAt string          `json:"published_at"`
}

// ranksString flattens a crawler's rank annotation into the
// comma-separated form the store keeps.
func ranksString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = fmt.Sprint(v)
		}
		return strings.Join(parts, ",")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	batchSize := fs.Int("batch", 500, "Articles per insert transaction")
	fs.Parse(os.Args[1:])

	logging.InitStderr()

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatalf("import: %v", err)
		}
		defer f.Close()
		in = f
	}

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending []store.Article
	var total, inserted, malformed, line int

	flush := func() {
		if len(pending) == 0 {
			return
		}
		n, err := st.SaveArticles(pending)
		if err != nil {
			fatalf("import: save batch: %v", err)
		}
		inserted += n
		pending = pending[:0]
	}

	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var row importRow
		if err := json.Unmarshal(raw, &row); err != nil {
			logging.Warn("skipping malformed line", "line", line, "error", err)
			malformed++
			continue
		}
		if row.Title == "" {
			logging.Warn("skipping line without title", "line", line)
			malformed++
			continue
		}

		a := store.Article{
			Source:    row.Source,
			Title:     row.Title,
			Summary:   row.Summary,
			URL:       row.URL,
			MobileURL: row.MobileURL,
			Ranks:     ranksString(row.Ranks),
			CrawlDate: row.CrawlDate,
		}
		if row.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, row.PublishedAt); err == nil {
				a.PublishedAt = ts
			}
		}
		if a.CrawlDate == "" {
			if !a.PublishedAt.IsZero() {
				a.CrawlDate = a.PublishedAt.Format("2006-01-02")
			} else {
				a.CrawlDate = today()
			}
		}

		pending = append(pending, a)
		total++
		if len(pending) >= *batchSize {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		fatalf("import: read input: %v", err)
	}
	flush()

	fmt.Printf("Read %d articles (%d malformed lines skipped)\n", total, malformed)
	fmt.Printf("Inserted %d new, %d duplicates ignored\n", inserted, total-inserted)
}
