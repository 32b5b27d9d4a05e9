package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flagkeeper/internal/domain"
)

// Text styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)
)

// Status icon styles
var (
	CompletedIconStyle = lipgloss.NewStyle().
				Foreground(ColorCompleted)

	InProgressIconStyle = lipgloss.NewStyle().
				Foreground(ColorInProgress)

	NotStartedIconStyle = lipgloss.NewStyle().
				Foreground(ColorNotStarted)
)

// Progress bar styles
var (
	BarEmptyStyle = lipgloss.NewStyle().
			Foreground(ColorBarEmpty)

	BarFullStyle = lipgloss.NewStyle().
			Foreground(ColorBarFull)
)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// StatusIconStyle returns the icon style for a flag status
func StatusIconStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return CompletedIconStyle
	case domain.StatusInProgress:
		return InProgressIconStyle
	default:
		return NotStartedIconStyle
	}
}

// RenderStatus renders the colored status symbol followed by its name
func RenderStatus(status domain.Status) string {
	return StatusIconStyle(status).Render(status.Symbol()) + " " + string(status)
}

// UrgencyStyle returns the style for a deadline urgency level
func UrgencyStyle(urgency domain.Urgency) lipgloss.Style {
	switch urgency {
	case domain.UrgencyUrgent:
		return lipgloss.NewStyle().Foreground(ColorUrgent).Bold(true)
	case domain.UrgencyPressing:
		return lipgloss.NewStyle().Foreground(ColorPressing)
	default:
		return lipgloss.NewStyle().Foreground(ColorOnTrack)
	}
}

// RenderProgressBar draws progress (0-100) as a bar of width cells
func RenderProgressBar(progress, width int) string {
	filled := domain.ClampProgress(progress) * width / 100
	return BarFullStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", width-filled))
}
