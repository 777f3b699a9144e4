package state

import (
	"fmt"

	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/tui/view"
)

// Render 按當前視圖渲染
func (m *Manager) Render() string {
	loc := m.loc
	ui := m.ui

	if !m.updates.Mounted || m.page == nil {
		return view.RenderLoading(loc.T(i18n.KeyCaption), loc.T(i18n.KeyConnecting), ui.Spinner.View())
	}

	statusMsg := ui.Status.Message
	if ui.Status.Detail != "" {
		statusMsg = fmt.Sprintf("%s\n%s", statusMsg, ui.Status.Detail)
	}
	statusColor := ui.Status.Type.Color()

	switch ui.CurrentView {
	case ConfirmView:
		return view.RenderConfirmView(m.updates.Confirm, loc, ui.TextInput)

	case AlertView:
		return view.RenderAlertView(m.updates.Alert, loc)

	case DetailView:
		if snap := m.page.Snapshot(); snap != nil {
			if e, ok := snap.Get(m.updates.DetailEntityID); ok {
				return view.RenderDetailView(e, loc, ui.TextInput, statusMsg, statusColor)
			}
		}
		// 實體已從快照中移除，退回列表
		fallthrough

	default:
		st := m.page.State()
		data := view.UpdatesData{
			Entities:   m.page.Entities(),
			Menu:       m.page.MenuItems(),
			Supervisor: st.Supervisor,
			Connected:  m.updates.Connected,
			ConnErr:    m.updates.ConnErr,
			Applying:   m.updates.Applying,
			Spinner:    ui.Spinner.View(),
		}
		return view.RenderUpdatesView(data, loc, ui.TextInput, statusMsg, statusColor)
	}
}
