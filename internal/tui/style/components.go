package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BadgeType 徽章類型
type BadgeType string

const (
	BadgeSuccess BadgeType = "success"
	BadgeError   BadgeType = "error"
	BadgeWarning BadgeType = "warning"
	BadgeInfo    BadgeType = "info"
	BadgeMajor   BadgeType = "major"
)

var (
	// 更新卡片
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Aurora3).
			Padding(0, 1)

	// 確認框
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Aurora2).
			Padding(1, 2).
			Width(56)

	// 錯誤提示框
	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(StatusRed).
			Padding(1, 2).
			Width(56)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Aurora2)

	BadgeSuccessStyle = lipgloss.NewStyle().
				Foreground(Polar1).
				Background(StatusGreen).
				Padding(0, 1).
				Bold(true)

	BadgeErrorStyle = lipgloss.NewStyle().
			Foreground(Snow1).
			Background(StatusRed).
			Padding(0, 1).
			Bold(true)

	BadgeWarningStyle = lipgloss.NewStyle().
				Foreground(Polar1).
				Background(StatusYellow).
				Padding(0, 1).
				Bold(true)

	BadgeInfoStyle = lipgloss.NewStyle().
			Foreground(Polar1).
			Background(Aurora3).
			Padding(0, 1).
			Bold(true)

	BadgeMajorStyle = lipgloss.NewStyle().
			Foreground(Polar1).
			Background(StatusOrange).
			Padding(0, 1).
			Bold(true)
)

// RenderProgressBar 渲染安裝進度條
func RenderProgressBar(percent float64, width int) string {
	if width < 2 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(width) * percent / 100.0)
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := fmt.Sprintf(" %5.1f%%", percent)

	return ProgressBarStyle.Render(bar) + percentage
}

// RenderBadge 渲染徽章
func RenderBadge(text string, t BadgeType) string {
	switch t {
	case BadgeSuccess:
		return BadgeSuccessStyle.Render(text)
	case BadgeError:
		return BadgeErrorStyle.Render(text)
	case BadgeWarning:
		return BadgeWarningStyle.Render(text)
	case BadgeInfo:
		return BadgeInfoStyle.Render(text)
	case BadgeMajor:
		return BadgeMajorStyle.Render(text)
	default:
		return text
	}
}

// RenderBox 渲染帶標題的盒子
func RenderBox(title, content string, box lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(Aurora1)

	return box.Render(titleStyle.Render(title) + "\n\n" + content)
}
