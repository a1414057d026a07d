package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/teamboard/core/internal/models"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(highlight).MarginBottom(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(subtle)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skillStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.AdaptiveColor{Light: "#E6E1F9", Dark: "#3C3359"})

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1).
			Width(44)

	statusColors = map[models.ProjectStatus]lipgloss.Color{
		models.StatusPending:    lipgloss.Color("11"),
		models.StatusInProgress: lipgloss.Color("12"),
		models.StatusCompleted:  lipgloss.Color("10"),
		models.StatusOnHold:     lipgloss.Color("8"),
	}
)

func statusBadge(s models.ProjectStatus) string {
	c, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return lipgloss.NewStyle().Foreground(c).Render(string(s))
}
