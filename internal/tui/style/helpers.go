package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TextColor 返回使用指定前景色的 Render 函數
func TextColor(c lipgloss.Color) func(string) string {
	s := lipgloss.NewStyle().Foreground(c)
	return func(str string) string {
		return s.Render(str)
	}
}

func InfoText(s string) string    { return TextColor(Info)(s) }
func SuccessText(s string) string { return TextColor(Success)(s) }
func WarningText(s string) string { return TextColor(Warning)(s) }
func ErrorText(s string) string   { return TextColor(Error)(s) }
func MutedText(s string) string   { return TextColor(Muted)(s) }
func SnowText(s string) string    { return TextColor(Snow1)(s) }

// Truncate 按終端可視寬度截斷，超出部分以 ".." 結尾
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "..")
}

// PadRight 按可視寬度右側補空格，CJK 字符算寬 2
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
