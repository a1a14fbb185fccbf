package controller

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#F8F8F2")
	colorMuted   = lipgloss.Color("#6272A4")
	colorPrimary = lipgloss.Color("#BD93F9")
	colorSuccess = lipgloss.Color("#50FA7B")
	colorWarning = lipgloss.Color("#FFB86C")
	colorDanger  = lipgloss.Color("#FF5555")
	colorCursor  = lipgloss.Color("#44475A")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Background(colorCursor).
			Foreground(colorText)

	groupStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	optionStyle      = lipgloss.NewStyle().Foreground(colorText)
	descriptionStyle = lipgloss.NewStyle().Foreground(colorMuted)
	inputStyle       = lipgloss.NewStyle().Foreground(colorWarning)
	lockedStyle      = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	checkedStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	partialStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	uncheckedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	readyStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	notReadyStyle = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	messageStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
)
