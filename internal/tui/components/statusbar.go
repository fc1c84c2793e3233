package components

import (
	"strings"

	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	Cycle       string // e.g. "Jun 5 - Jul 4"
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	Err         string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if info.Cycle != "" {
		left += base.Render("  │  ") + accent.Render(info.Cycle)
	}

	var right []string
	switch {
	case info.Err != "":
		right = append(right, warn.Render(info.Err))
	case info.Refreshing:
		right = append(right, accent.Render("refreshing…"))
	}
	if info.AutoRefresh {
		right = append(right, base.Render("auto"))
	}
	if info.DataAge != "" {
		right = append(right, base.Render("loaded "+info.DataAge))
	}
	r := strings.Join(right, base.Render("  ")) + base.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 0 {
		gap = 0
	}
	bar := left + base.Render(strings.Repeat(" ", gap)) + r

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(bar)
}
