package tui

import "github.com/charmbracelet/lipgloss"

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorRed    = lipgloss.Color("#d75f6b") // red
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
)

var (
	// Pane borders; the focused pane gets the accent color.
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	focusedPaneStyle = paneStyle.
				BorderForeground(colorBlue)

	// Pane titles rendered above each border.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			PaddingLeft(1)

	inactiveTitleStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	statusReadyStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	statusBusyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	statusDownStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	textStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

const iconDot = "•"
