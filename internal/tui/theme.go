package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette — Christmas without the kitsch
var (
	Primary = lipgloss.Color("#DC2626") // Elf Red
	Forest  = lipgloss.Color("#16A34A") // Pine Green
	Gold    = lipgloss.Color("#FBBF24") // Star Gold
	Snow    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Error   = lipgloss.Color("#F43F5E") // Rose
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	elfStyle = lipgloss.NewStyle().
			Foreground(Forest).
			Bold(true)

	parentStyle = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(Snow)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(Error)
)
