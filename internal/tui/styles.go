package tui

import (
	"github.com/charmbracelet/lipgloss"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))
)

// stickerColors maps sticker colors to terminal colors.
var stickerColors = map[gocube.Color]lipgloss.Color{
	gocube.White:  lipgloss.Color("15"),
	gocube.Yellow: lipgloss.Color("226"),
	gocube.Green:  lipgloss.Color("34"),
	gocube.Blue:   lipgloss.Color("27"),
	gocube.Red:    lipgloss.Color("196"),
	gocube.Orange: lipgloss.Color("208"),
}

// sticker renders one facelet as a two cell colored block.
func sticker(c gocube.Color) string {
	color, ok := stickerColors[c]
	if !ok {
		return statusStyle.Render("··")
	}
	return lipgloss.NewStyle().Foreground(color).Render("██")
}
