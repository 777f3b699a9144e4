package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/tui/constants"
	"github.com/Yat-Muk/hassup/internal/tui/style"
)

// 名稱列寬度
const nameWidth = 24

// UpdatesData 更新頁渲染所需數據
type UpdatesData struct {
	Entities   []update.Entity
	Menu       []application.MenuItem
	Supervisor *supervisor.Info
	Connected  bool
	ConnErr    string
	Applying   bool
	Spinner    string
}

// RenderUpdatesView 渲染更新列表與菜單
func RenderUpdatesView(
	data UpdatesData,
	loc *i18n.Localizer,
	ti textinput.Model,
	statusMsg string,
	statusColor lipgloss.Color,
) string {
	sections := []string{
		renderSubpageHeader(loc.T(i18n.KeyCaption)),
		renderConnectionPanel(data, loc),
		renderEntityCard(data.Entities, loc),
		renderUpdatesMenu(data.Menu, loc),
	}

	if data.Applying {
		sections = append(sections, style.InfoText(fmt.Sprintf(" %s %s", data.Spinner, loc.T(i18n.KeyApplying))))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(sections, "\n"),
		RenderStatusMessage(statusMsg, statusColor),
		RenderInputFooter(loc.T(i18n.KeyInputPrompt), ti,
			Hint{Key: constants.KeyUpdates_DetailPrefix + "<N>", Text: loc.T(i18n.KeyDetailHint)},
			Hint{Key: constants.KeyUpdates_Quit, Text: loc.T(i18n.KeyQuit)},
		),
	)
}

// renderConnectionPanel 連接狀態與 Supervisor 頻道
func renderConnectionPanel(data UpdatesData, loc *i18n.Localizer) string {
	labelStyle := lipgloss.NewStyle().Foreground(style.Snow3)

	var conn string
	switch {
	case data.Connected:
		conn = style.SuccessText("● " + loc.T(i18n.KeyConnected))
	case data.ConnErr != "":
		conn = style.ErrorText("● " + loc.Tf(i18n.KeyDisconnected, style.Truncate(data.ConnErr, 36)))
	default:
		conn = style.WarningText("● " + loc.T(i18n.KeyConnecting))
	}
	lines := []string{" " + conn}

	if info := data.Supervisor; info != nil {
		line := labelStyle.Render(" "+loc.T(i18n.KeySupervisor)+": ") +
			style.SnowText(info.Version) +
			labelStyle.Render("  "+loc.T(i18n.KeyChannel)+": ") +
			channelBadge(info.Channel)
		lines = append(lines, line)
	}

	lines = append(lines, lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("─", layoutWidth)))
	return strings.Join(lines, "\n")
}

func channelBadge(c supervisor.Channel) string {
	switch c {
	case supervisor.ChannelStable:
		return style.RenderBadge(string(c), style.BadgeSuccess)
	case supervisor.ChannelBeta:
		return style.RenderBadge(string(c), style.BadgeWarning)
	default:
		return style.RenderBadge(string(c), style.BadgeInfo)
	}
}

// renderEntityCard 渲染可安裝的更新，行號從 1 開始
func renderEntityCard(entities []update.Entity, loc *i18n.Localizer) string {
	if len(entities) == 0 {
		return style.CardStyle.Render(style.MutedText(loc.T(i18n.KeyNoUpdates)))
	}

	rows := make([]string, 0, len(entities))
	for i, e := range entities {
		rows = append(rows, renderEntityRow(i+1, e, loc))
	}
	return style.CardStyle.Render(strings.Join(rows, "\n"))
}

func renderEntityRow(n int, e update.Entity, loc *i18n.Localizer) string {
	numStyle := lipgloss.NewStyle().Foreground(style.Aurora3)
	name := style.PadRight(style.Truncate(e.Name(), nameWidth), nameWidth)

	versions := style.MutedText(e.Attributes.InstalledVersion+" → ") +
		lipgloss.NewStyle().Foreground(style.GetStateColor(e.State)).Render(e.Attributes.LatestVersion)

	row := fmt.Sprintf("%s %s %s", numStyle.Render(fmt.Sprintf("%2d.", n)), style.SnowText(name), versions)

	var badges []string
	if e.Bump() == update.BumpMajor {
		badges = append(badges, style.RenderBadge(loc.T(i18n.KeyMajor), style.BadgeMajor))
	}
	if e.Skipped() {
		badges = append(badges, style.RenderBadge(loc.T(i18n.KeySkipped), style.BadgeWarning))
	}
	if e.Attributes.InProgress.Active {
		badges = append(badges, style.RenderBadge(loc.T(i18n.KeyInProgress), style.BadgeInfo))
	}
	if len(badges) > 0 {
		row += " " + strings.Join(badges, " ")
	}
	return row
}

// renderUpdatesMenu 檢查更新固定在首位，其餘來自頁面菜單
func renderUpdatesMenu(menu []application.MenuItem, loc *i18n.Localizer) string {
	items := []MenuItem{
		{Num: constants.KeyUpdates_Check, Text: loc.T(i18n.KeyCheckUpdates), TextColor: style.Aurora2},
		{},
	}
	for i, m := range menu {
		items = append(items, MenuItem{Num: constants.MenuKeyForIndex(i), Text: m.Label})
	}
	return renderMenuWithAlignment(items)
}
