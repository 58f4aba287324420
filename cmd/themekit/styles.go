package main

import "github.com/charmbracelet/lipgloss"

var (
	colorOK    = lipgloss.Color("#04B575")
	colorError = lipgloss.Color("#FF4672")
	colorMuted = lipgloss.Color("#767676")
	colorKey   = lipgloss.Color("#7D56F4")

	headingStyle = lipgloss.NewStyle().Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(colorKey)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle      = lipgloss.NewStyle().Foreground(colorOK)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	checkMark = okStyle.Render("✓")
	crossMark = errorStyle.Render("✗")
)
