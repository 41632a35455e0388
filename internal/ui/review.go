package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quangtran/newsense/internal/labeling"
	"github.com/quangtran/newsense/internal/lexicon"
)

// Quick-label buckets: one keystroke per sentiment band.
var bucketScores = map[string]float64{
	"1": -0.8,
	"2": -0.25,
	"3": 0,
	"4": 0.25,
	"5": 0.8,
}

// Review is the root Bubble Tea model for a labeling session.
// IMPORTANT: Review does NOT hold *sql.DB. It receives items via messages.
type Review struct {
	loadQueue func() tea.Cmd
	submit    func(queueID int64, score float64, comment string) tea.Cmd
	skip      func(queueID int64) tea.Cmd

	scorer *lexicon.Scorer // match evidence for the current title

	items    []labeling.Item
	cursor   int
	labeled  int
	skipped  int
	input    textinput.Model
	entering bool
	err      error
	width    int
	height   int
	ready    bool
	loading  bool
}

// NewReview creates a Review with the given command functions.
// loadQueue: returns a Cmd that fetches pending queue items
// submit: returns a Cmd that writes a label through the labeling engine
// skip: returns a Cmd that marks an item skipped
func NewReview(scorer *lexicon.Scorer, loadQueue func() tea.Cmd, submit func(queueID int64, score float64, comment string) tea.Cmd, skip func(queueID int64) tea.Cmd) Review {
	ti := textinput.New()
	ti.Placeholder = "score in [-1, 1]"
	ti.CharLimit = 8
	ti.Width = 20
	return Review{
		scorer:    scorer,
		loadQueue: loadQueue,
		submit:    submit,
		skip:      skip,
		input:     ti,
	}
}

// Init loads the pending queue.
func (r Review) Init() tea.Cmd {
	if r.loadQueue != nil {
		r.loading = true
		return r.loadQueue()
	}
	return nil
}

// Update handles messages and returns the updated model and any commands.
func (r Review) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return r.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.ready = true
		return r, nil

	case QueueLoaded:
		r.loading = false
		if msg.Err != nil {
			r.err = msg.Err
		} else {
			r.items = msg.Items
			r.err = nil
			if r.cursor >= len(r.items) && len(r.items) > 0 {
				r.cursor = len(r.items) - 1
			}
		}
		return r, nil

	case LabelSubmitted:
		if msg.Err != nil {
			r.err = msg.Err
			return r, nil
		}
		r.labeled++
		r.removeItem(msg.QueueID)
		return r, nil

	case ItemSkipped:
		if msg.Err != nil {
			r.err = msg.Err
			return r, nil
		}
		r.skipped++
		r.removeItem(msg.QueueID)
		return r, nil
	}

	return r, nil
}

// removeItem drops a queue item from the local list after it has been
// labeled or skipped, keeping the cursor in bounds.
func (r *Review) removeItem(queueID int64) {
	for i := range r.items {
		if r.items[i].ID == queueID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	if r.cursor >= len(r.items) && r.cursor > 0 {
		r.cursor = len(r.items) - 1
	}
}

// handleKeyMsg processes keyboard input.
func (r Review) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if r.entering {
		return r.handleInputKey(msg)
	}

	// Clear any existing error on key press
	if r.err != nil {
		r.err = nil
	}

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return r, tea.Quit

	case "j", "down":
		if r.cursor < len(r.items)-1 {
			r.cursor++
		}
		return r, nil

	case "k", "up":
		if r.cursor > 0 {
			r.cursor--
		}
		return r, nil

	case "1", "2", "3", "4", "5":
		if item, ok := r.current(); ok && r.submit != nil {
			return r, r.submit(item.ID, bucketScores[key], "")
		}
		return r, nil

	case "c":
		if _, ok := r.current(); ok {
			r.entering = true
			r.input.SetValue("")
			return r, r.input.Focus()
		}
		return r, nil

	case "s":
		if item, ok := r.current(); ok && r.skip != nil {
			return r, r.skip(item.ID)
		}
		return r, nil

	case "r":
		if r.loadQueue != nil {
			r.loading = true
			return r, r.loadQueue()
		}
		return r, nil
	}

	return r, nil
}

// handleInputKey processes keys while the custom-score input is focused.
func (r Review) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.entering = false
		r.input.Blur()
		return r, nil

	case "enter":
		score, err := strconv.ParseFloat(strings.TrimSpace(r.input.Value()), 64)
		if err != nil {
			r.err = fmt.Errorf("not a score: %q", r.input.Value())
			return r, nil
		}
		if score < -1 {
			score = -1
		} else if score > 1 {
			score = 1
		}
		r.entering = false
		r.input.Blur()
		r.err = nil
		if item, ok := r.current(); ok && r.submit != nil {
			return r, r.submit(item.ID, score, "")
		}
		return r, nil
	}

	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

func (r Review) current() (labeling.Item, bool) {
	if len(r.items) == 0 || r.cursor >= len(r.items) {
		return labeling.Item{}, false
	}
	return r.items[r.cursor], true
}

// View renders the UI.
func (r Review) View() string {
	if !r.ready {
		return "Loading..."
	}

	var b strings.Builder

	item, ok := r.current()
	if !ok {
		msg := "Queue clear."
		if r.loading {
			msg = "Loading queue..."
		}
		b.WriteString(HelpStyle.Render(fmt.Sprintf("%s  labeled %d, skipped %d this session", msg, r.labeled, r.skipped)))
		b.WriteString("\n")
	} else {
		b.WriteString(r.renderCard(item))
		b.WriteString("\n")
	}

	if r.err != nil {
		b.WriteString(ErrorStyle.Width(r.width).Render("Error: " + r.err.Error() + " (press any key to dismiss)"))
		b.WriteString("\n")
	}

	if r.entering {
		b.WriteString(InputBar.Width(r.width).Render("custom score: " + r.input.View() + "  (enter to submit, esc to cancel)"))
	} else {
		b.WriteString(r.renderStatusBar())
	}

	return b.String()
}

func (r Review) renderCard(item labeling.Item) string {
	scoreStyle := scoreStyleFor(item.FinalLabel)

	var lines []string
	lines = append(lines, TitleStyle.Render(item.Title))
	lines = append(lines, "")
	lines = append(lines,
		FieldLabel.Render("predicted ")+
			scoreStyle.Render(fmt.Sprintf("%+.3f %s", item.FinalScore, item.FinalLabel)))
	lines = append(lines,
		FieldLabel.Render("uncertain ")+
			fmt.Sprintf("%.3f", item.Uncertainty)+
			FieldLabel.Render(fmt.Sprintf("  (conflict %.2f, magnitude %.2f, sparsity %.2f)",
				item.SignalConflict, item.MagnitudeUncertainty, item.MatchSparsity)))

	if r.scorer != nil {
		res := r.scorer.Score(item.Title)
		if len(res.Matches) > 0 {
			var phrases []string
			for _, m := range res.Matches {
				phrases = append(phrases, fmt.Sprintf("%s %+.2f", m.Phrase, m.Weight))
			}
			lines = append(lines, FieldLabel.Render("evidence  ")+EvidenceStyle.Render(strings.Join(phrases, "  ")))
		} else {
			lines = append(lines, FieldLabel.Render("evidence  ")+NeutralText.Render("no lexicon matches"))
		}
	}

	lines = append(lines, "")
	lines = append(lines, FieldLabel.Render(fmt.Sprintf("%s  rank %d  item %d of %d pending",
		item.CrawlDate, item.PriorityRank, r.cursor+1, len(r.items))))

	return CardStyle.Width(max(40, r.width-4)).Render(strings.Join(lines, "\n"))
}

func (r Review) renderStatusBar() string {
	hints := []string{
		StatusBarKey.Render("1-5") + StatusBarText.Render(" label"),
		StatusBarKey.Render("c") + StatusBarText.Render(" custom"),
		StatusBarKey.Render("s") + StatusBarText.Render(" skip"),
		StatusBarKey.Render("j/k") + StatusBarText.Render(" move"),
		StatusBarKey.Render("r") + StatusBarText.Render(" reload"),
		StatusBarKey.Render("q") + StatusBarText.Render(" quit"),
	}
	status := strings.Join(hints, "  ")
	if r.loading {
		status += StatusBarText.Render("  loading…")
	}
	return StatusBar.Width(r.width).Render(status)
}

func scoreStyleFor(label lexicon.Label) lipgloss.Style {
	switch label {
	case lexicon.Bullish, lexicon.SomewhatBullish:
		return BullishText
	case lexicon.Bearish, lexicon.SomewhatBearish:
		return BearishText
	default:
		return NeutralText
	}
}

// Cursor returns the current cursor position (for testing).
func (r Review) Cursor() int {
	return r.cursor
}

// Items returns the current items (for testing).
func (r Review) Items() []labeling.Item {
	return r.items
}
