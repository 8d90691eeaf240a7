package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette is the stylesheet shared by every view.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = palette{
	title: bold("#33A9E0").MarginBottom(1),
	ok:    bold("#04B575"),
	err:   bold("#FF5555"),
	warn:  fg("#FFA500"),
	help:  fg("#626262").Italic(true),
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
