package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/tui/constants"
	"github.com/Yat-Muk/hassup/internal/tui/style"
)

// RenderConfirmView 渲染確認框
func RenderConfirmView(req application.ConfirmRequest, loc *i18n.Localizer, ti textinput.Model) string {
	var body []string
	for _, p := range req.Paragraphs {
		body = append(body, p, "")
	}
	for _, item := range req.Items {
		body = append(body, " • "+item)
	}
	if len(req.Items) > 0 {
		body = append(body, "")
	}
	if req.Question != "" {
		body = append(body, style.WarningText(req.Question))
	}

	box := style.RenderBox(req.Title, strings.Join(body, "\n"), style.DialogStyle)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderSubpageHeader(loc.T(i18n.KeyCaption)),
		"",
		box,
		"",
		RenderInputFooter(loc.T(i18n.KeyConfirmHint)+" ", ti,
			Hint{Key: constants.KeyConfirm_Yes, Text: req.ConfirmLabel},
			Hint{Key: constants.KeyConfirm_No + "/Esc", Text: req.DismissLabel},
		),
	)
}

// RenderAlertView 渲染錯誤提示，任意確認鍵關閉
func RenderAlertView(text string, loc *i18n.Localizer) string {
	box := style.RenderBox(loc.T(i18n.KeyAlertTitle), style.ErrorText(text), style.AlertStyle)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderSubpageHeader(loc.T(i18n.KeyCaption)),
		"",
		box,
		"",
		lipgloss.NewStyle().PaddingLeft(1).Render(renderHints([]Hint{
			{Key: "Enter", Text: loc.T(i18n.KeyOK)},
		})),
	)
}
