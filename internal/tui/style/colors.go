package style

import "github.com/charmbracelet/lipgloss"

// 基礎色板
var (
	HassBlue  = lipgloss.Color("#18BCF2") // Home Assistant 品牌藍
	DeepBlue  = lipgloss.Color("#0381ED") // 標題
	Violet    = lipgloss.Color("#DDAAFF") // 次要強調
	LimeGreen = lipgloss.Color("#B2FF00") // 成功/已連接
	Yellow    = lipgloss.Color("#FFDC65") // 警告/已略過
	Orange    = lipgloss.Color("#FC7B00") // 主版本更新
	Red       = lipgloss.Color("#FF007F") // 錯誤/斷開

	White    = lipgloss.Color("#F3F3F0")
	Gray     = lipgloss.Color("#C0C0C0")
	DarkGray = lipgloss.Color("#8A8783")

	BgDark   = lipgloss.Color("#1a1a1a")
	BgMedium = lipgloss.Color("#2a2a2a")
)

// 語義色
var (
	Primary   = HassBlue
	Secondary = Violet

	StatusGreen  = LimeGreen
	StatusYellow = Yellow
	StatusOrange = Orange
	StatusRed    = Red

	Aurora1 = LimeGreen
	Aurora2 = HassBlue
	Aurora3 = Violet

	Snow1 = White    // 主要文字
	Snow2 = Gray     // 次要文字
	Snow3 = DarkGray // 弱化文字

	Polar1 = BgDark
	Polar2 = BgMedium
	Polar4 = DarkGray // 分隔線

	Muted   = DarkGray
	Success = LimeGreen
	Error   = Red
	Warning = Yellow
	Info    = HassBlue
)
