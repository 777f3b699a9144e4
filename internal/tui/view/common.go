package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Yat-Muk/hassup/internal/tui/style"
)

// 版面寬度
const layoutWidth = 50

// MenuItem 菜單項結構
type MenuItem struct {
	Num       string         // 序號 (如 "1", "r")
	Text      string         // 選項名稱
	Desc      string         // 描述/提示，(..) 灰色，[..] 黃色
	TextColor lipgloss.Color // Text 的顏色
}

// renderMenuWithAlignment 渲染自動對齊的菜單列表
// 帶描述的項目按最長文本對齊
func renderMenuWithAlignment(items []MenuItem) string {
	maxNumWidth := 0
	maxTextWidth := 0

	for _, item := range items {
		if item.Num == "" && item.Text == "" {
			continue
		}
		if len(item.Num) > maxNumWidth {
			maxNumWidth = len(item.Num)
		}
		if item.Desc != "" {
			if w := runewidth.StringWidth(item.Text); w > maxTextWidth {
				maxTextWidth = w
			}
		}
	}

	targetWidth := 0
	if maxTextWidth > 0 {
		targetWidth = maxTextWidth + 2
	}

	numStyle := lipgloss.NewStyle().Foreground(style.Aurora3)
	dotStyle := lipgloss.NewStyle().Foreground(style.Snow3)

	var rows []string
	for _, item := range items {
		// 分隔線
		if item.Num == "" && item.Text == "" {
			rows = append(rows, lipgloss.NewStyle().
				Foreground(style.Snow2).
				Render(" "+strings.Repeat("┄", layoutWidth-2)))
			continue
		}

		color := item.TextColor
		if color == "" {
			color = style.Snow1
		}
		textStyle := lipgloss.NewStyle().Foreground(color)

		padding := " "
		if item.Desc != "" && targetWidth > 0 {
			gap := targetWidth - runewidth.StringWidth(item.Text)
			if gap < 1 {
				gap = 1
			}
			padding = strings.Repeat(" ", gap)
		}

		row := fmt.Sprintf(" %s%s %s%s",
			numStyle.Render(fmt.Sprintf("%*s", maxNumWidth, item.Num)),
			dotStyle.Render("."),
			textStyle.Render(item.Text)+padding,
			colorizeDescription(item.Desc),
		)
		rows = append(rows, row)
	}

	rows = append(rows, lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("═", layoutWidth)))

	return strings.Join(rows, "\n")
}

// colorizeDescription 括號變灰，中括號變黃
func colorizeDescription(desc string) string {
	if desc == "" {
		return ""
	}

	yellowStyle := lipgloss.NewStyle().Foreground(style.StatusYellow)
	greyStyle := lipgloss.NewStyle().Foreground(style.Snow3)

	var result strings.Builder
	runes := []rune(desc)
	n := len(runes)

	for i := 0; i < n; i++ {
		switch runes[i] {
		case '[':
			start := i
			for i < n && runes[i] != ']' {
				i++
			}
			if i < n {
				result.WriteString(yellowStyle.Render(string(runes[start : i+1])))
			} else {
				result.WriteString(greyStyle.Render(string(runes[start:])))
			}
		default:
			start := i
			for i < n && runes[i] != '[' {
				i++
			}
			result.WriteString(greyStyle.Render(string(runes[start:i])))
			i--
		}
	}
	return result.String()
}

// RenderLogo 渲染 HASSUP ASCII Logo
func RenderLogo() string {
	logoLines := []string{
		"██╗  ██╗ █████╗ ███████╗███████╗██╗   ██╗██████╗ ",
		"██║  ██║██╔══██╗██╔════╝██╔════╝██║   ██║██╔══██╗",
		"███████║███████║███████╗███████╗██║   ██║██████╔╝",
		"██╔══██║██╔══██║╚════██║╚════██║██║   ██║██╔═══╝ ",
		"██║  ██║██║  ██║███████║███████║╚██████╔╝██║     ",
		"╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝ ╚═════╝ ╚═╝     ",
	}

	gradientColors := []lipgloss.Color{
		lipgloss.Color("#9BE7FF"),
		lipgloss.Color("#5AD1FA"),
		lipgloss.Color("#18BCF2"),
		lipgloss.Color("#0FA3DE"),
		lipgloss.Color("#0381ED"),
		lipgloss.Color("#0360B8"),
	}

	var coloredLines []string
	for i, line := range logoLines {
		coloredLines = append(coloredLines, lipgloss.NewStyle().
			Foreground(gradientColors[i]).
			Width(layoutWidth).
			AlignHorizontal(lipgloss.Center).
			Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, coloredLines...)
}

// renderSubpageHeader 渲染頁面頭部
func renderSubpageHeader(subTitle string) string {
	tagline := lipgloss.NewStyle().
		Foreground(style.Aurora3).
		Width(layoutWidth).
		AlignHorizontal(lipgloss.Center).
		Render(":: Home Assistant 更新控制台 ::")

	subTitleLine := lipgloss.NewStyle().
		Foreground(style.Aurora2).
		Render(fmt.Sprintf(" »»» %s «««", subTitle))

	separator := lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("═", layoutWidth))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderLogo(),
		"",
		tagline,
		"",
		subTitleLine,
		separator,
	)
}

// RenderStatusMessage 渲染底部狀態欄
func RenderStatusMessage(msg string, color lipgloss.Color) string {
	if msg == "" {
		return ""
	}

	baseStyle := lipgloss.NewStyle().Foreground(color)

	var renderedLines []string
	for _, line := range strings.Split(msg, "\n") {
		renderedLines = append(renderedLines, baseStyle.Render(line))
	}

	return lipgloss.NewStyle().
		Padding(1, 1).
		Width(layoutWidth + 2).
		Align(lipgloss.Left).
		Render(lipgloss.JoinVertical(lipgloss.Left, renderedLines...))
}

// RenderTextInput 只渲染輸入行
func RenderTextInput(prompt string, ti textinput.Model) string {
	p := lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(" ❯ " + prompt)

	return lipgloss.JoinHorizontal(lipgloss.Left, p, ti.View())
}

// Hint 底部按鍵提示
type Hint struct {
	Key  string
	Text string
}

// RenderInputFooter 渲染輸入行與按鍵提示
func RenderInputFooter(prompt string, ti textinput.Model, hints ...Hint) string {
	inputLine := RenderTextInput(prompt, ti)
	if len(hints) == 0 {
		return inputLine
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		inputLine,
		"",
		lipgloss.NewStyle().PaddingLeft(1).Render(renderHints(hints)),
	)
}

func renderHints(hints []Hint) string {
	snow3 := lipgloss.NewStyle().Foreground(style.Snow3)
	polar4 := lipgloss.NewStyle().Foreground(style.Polar4)

	var parts []string
	for i, h := range hints {
		if i > 0 {
			parts = append(parts, polar4.Render(" • "))
		}
		parts = append(parts, snow3.Render(h.Key+" "), polar4.Render(h.Text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

// RenderLoading 渲染加載頁面
func RenderLoading(title, message string, sp string) string {
	header := renderSubpageHeader(title)
	loadingText := lipgloss.NewStyle().
		Foreground(style.Aurora2).
		Render(fmt.Sprintf(" %s %s", sp, message))
	return lipgloss.JoinVertical(lipgloss.Left, header, "", loadingText)
}
