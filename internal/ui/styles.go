package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorBullish   = lipgloss.Color("78")  // Green
	colorBearish   = lipgloss.Color("203") // Red
)

// TitleStyle for the article title card.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// CardStyle frames the current queue item.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// FieldLabel style for field names inside the card.
var FieldLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// BullishText for positive scores and labels.
var BullishText = lipgloss.NewStyle().
	Foreground(colorBullish).
	Bold(true)

// BearishText for negative scores and labels.
var BearishText = lipgloss.NewStyle().
	Foreground(colorBearish).
	Bold(true)

// NeutralText for neutral scores and labels.
var NeutralText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// EvidenceStyle for matched lexicon phrases.
var EvidenceStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// InputBar style for the custom-score input line.
var InputBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)
