package main

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/zstar1003/Tosticker/internal/models"
)

var (
	highColor   = lipgloss.Color("#EF4444")
	mediumColor = lipgloss.Color("#F59E0B")
	lowColor    = lipgloss.Color("#10B981")
	mutedColor  = lipgloss.Color("#6B7280")

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	doneStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highColor)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))
)

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(highColor)
	case models.PriorityMedium:
		return lipgloss.NewStyle().Foreground(mediumColor)
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(lowColor)
	default:
		return lipgloss.NewStyle().Foreground(mutedColor)
	}
}

func renderPriority(p models.Priority) string {
	return priorityStyle(p).Render(string(p))
}

func label(s string) string {
	return labelStyle.Render(s)
}

// formatWhen prints a timestamp in local time, or "-" when unset.
func formatWhen(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
