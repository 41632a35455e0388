package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quangtran/newsense/internal/labeling"
	"github.com/quangtran/newsense/internal/lexicon"
	"github.com/quangtran/newsense/internal/logging"
	"github.com/quangtran/newsense/internal/ui"
)

func runReview() {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	date := fs.String("date", today(), "Queue date (YYYY-MM-DD)")
	fs.Parse(os.Args[1:])

	// The TUI owns the terminal; logs go to the file.
	if err := logging.Init(); err != nil {
		fatalf("review: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()

	lm := newLearning(st)
	scorer := newScorer(cfg, lm)
	engine, err := labeling.NewEngine(st.DB(), scorer, lm)
	if err != nil {
		fatalf("review: %v", err)
	}

	loadQueue := func() tea.Cmd {
		return func() tea.Msg {
			items, err := engine.PendingItems(*date)
			return ui.QueueLoaded{Items: items, Err: err}
		}
	}
	submit := func(queueID int64, score float64, comment string) tea.Cmd {
		return func() tea.Msg {
			feedbackID, err := engine.SubmitLabel(queueID, score, lexicon.LabelFor(score), comment)
			return ui.LabelSubmitted{QueueID: queueID, FeedbackID: feedbackID, Err: err}
		}
	}
	skip := func(queueID int64) tea.Cmd {
		return func() tea.Msg {
			err := engine.Skip(queueID)
			return ui.ItemSkipped{QueueID: queueID, Err: err}
		}
	}

	p := tea.NewProgram(ui.NewReview(scorer, loadQueue, submit, skip), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "review: %v\n", err)
		os.Exit(1)
	}
}
