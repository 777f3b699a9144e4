package state

import (
	ttea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/i18n"
)

// Config 初始化配置
type Config struct {
	Log       *zap.Logger
	Page      *application.UpdatesPage
	Localizer *i18n.Localizer
}

// Manager 狀態管理器 (State Container)
type Manager struct {
	log *zap.Logger

	ui      *UIState
	updates *UpdatesState

	page *application.UpdatesPage
	loc  *i18n.Localizer
}

// NewManager 創建狀態管理器
func NewManager(cfg *Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:     log,
		ui:      NewUIState(),
		updates: NewUpdatesState(),
		page:    cfg.Page,
		loc:     cfg.Localizer,
	}
}

func (m *Manager) UI() *UIState                   { return m.ui }
func (m *Manager) Updates() *UpdatesState         { return m.updates }
func (m *Manager) Page() *application.UpdatesPage { return m.page }
func (m *Manager) Localizer() *i18n.Localizer     { return m.loc }

// CancelConfirm 取消待確認的頻道切換，頁面回到 Idle
func (m *Manager) CancelConfirm() {
	if m.page != nil {
		m.page.CancelToggle()
	}
	m.updates.ClearConfirm()
}

// ShowAlert 切換到提示框
// 確認框打開時先取消切換，否則提示關閉後切換流程停在 Confirming
func (m *Manager) ShowAlert(text string) ttea.Cmd {
	if m.ui.CurrentView == ConfirmView {
		m.log.Debug("alert replaces confirm dialog, cancel pending toggle")
		m.CancelConfirm()
	}
	m.updates.ShowAlert(text)
	return m.ui.SwitchView(AlertView)
}
