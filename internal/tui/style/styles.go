package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// 標題樣式
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// 幫助樣式
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)
)

// GetStateColor 根據 update 實體狀態返回顏色
func GetStateColor(state string) lipgloss.Color {
	switch state {
	case "on":
		return Success
	case "off":
		return Muted
	case "unavailable", "unknown":
		return Error
	default:
		return Snow2
	}
}
