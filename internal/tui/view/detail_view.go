package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/tui/style"
)

// RenderDetailView 渲染單個更新的詳情
func RenderDetailView(
	e update.Entity,
	loc *i18n.Localizer,
	ti textinput.Model,
	statusMsg string,
	statusColor lipgloss.Color,
) string {
	labelStyle := lipgloss.NewStyle().Foreground(style.Snow3).Width(14)
	field := func(label, value string) string {
		return " " + labelStyle.Render(label) + value
	}

	lines := []string{
		" " + style.TitleStyle.Render(e.Name()),
		" " + style.MutedText(e.EntityID),
		"",
		field(loc.T(i18n.KeyInstalled), style.SnowText(e.Attributes.InstalledVersion)),
		field(loc.T(i18n.KeyLatest), lipgloss.NewStyle().Foreground(style.GetStateColor(e.State)).Render(e.Attributes.LatestVersion)),
	}

	if e.Attributes.SkippedVersion != "" {
		lines = append(lines, field(loc.T(i18n.KeySkipped), style.WarningText(e.Attributes.SkippedVersion)))
	}

	if p := e.Attributes.InProgress; p.Active {
		value := style.InfoText("…")
		if p.Percent >= 0 {
			value = style.RenderProgressBar(float64(p.Percent), 20)
		}
		lines = append(lines, field(loc.T(i18n.KeyInProgress), value))
	}

	if e.Supports(update.FeatureInstall) {
		auto := style.MutedText("✗")
		if e.Attributes.AutoUpdate {
			auto = style.SuccessText("✓")
		}
		lines = append(lines, field(loc.T(i18n.KeyAutoUpdate), auto))
	}

	if summary := strings.TrimSpace(e.Attributes.ReleaseSummary); summary != "" {
		lines = append(lines, "",
			" "+labelStyle.Render(loc.T(i18n.KeyReleaseSummary)),
			lipgloss.NewStyle().
				Foreground(style.Snow2).
				Width(layoutWidth-2).
				PaddingLeft(1).
				Render(summary),
		)
	}

	if e.Attributes.ReleaseURL != "" {
		lines = append(lines, "", field(loc.T(i18n.KeyReleaseURL), style.InfoText(e.Attributes.ReleaseURL)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderSubpageHeader(loc.T(i18n.KeyDetailTitle)),
		strings.Join(lines, "\n"),
		RenderStatusMessage(statusMsg, statusColor),
		RenderInputFooter(loc.T(i18n.KeyInputPrompt), ti,
			Hint{Key: "Esc", Text: loc.T(i18n.KeyBack)},
		),
	)
}
