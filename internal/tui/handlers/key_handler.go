package handlers

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/hassup/internal/tui/constants"
	"github.com/Yat-Muk/hassup/internal/tui/state"
)

// KeyHandler 核心處理器：負責全局導航和請求分發
type KeyHandler struct {
	stateMgr   *state.Manager
	cmdBuilder *CommandBuilder
	log        *zap.Logger
}

func NewKeyHandler(stateMgr *state.Manager, cmdBuilder *CommandBuilder, log *zap.Logger) *KeyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &KeyHandler{
		stateMgr:   stateMgr,
		cmdBuilder: cmdBuilder,
		log:        log,
	}
}

// Handle 處理全局按鍵
func (h *KeyHandler) Handle(msg tea.KeyMsg, m *state.Manager) (*state.Manager, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, h.cmdBuilder.QuitCmd()
	}

	// 提示框只接受確認或返回
	if m.UI().CurrentView == state.AlertView {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.Updates().DismissAlert()
			return m, m.UI().SwitchView(state.UpdatesView)
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return h.handleInputSubmit(m, m.UI().CurrentView)

	case tea.KeyEsc:
		return h.handleInputEscape(m, m.UI().CurrentView)

	default:
		return m, m.UI().UpdateInput(msg)
	}
}

// ========================================
// 核心分發邏輯 (Enter 觸發)
// ========================================

func (h *KeyHandler) handleInputSubmit(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	input := strings.TrimSpace(inputvalidator.SanitizeInput(m.UI().GetInputBuffer()))
	m.UI().ClearInput()

	if input == "" {
		return m, nil
	}

	if err := inputvalidator.ValidateMenuInput(input); err != nil {
		h.invalidInput(m)
		return m, nil
	}

	switch view {
	case state.UpdatesView:
		return h.submitUpdates(m, input)
	case state.ConfirmView:
		return h.submitConfirm(m, input)
	case state.DetailView:
		// 詳情頁允許直接跳到另一行
		if _, ok := inputvalidator.ParseDetailIndex(input); ok {
			return h.openDetail(m, input)
		}
		h.invalidInput(m)
		return m, nil
	}
	return m, nil
}

func (h *KeyHandler) submitUpdates(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	loc := m.Localizer()
	key := strings.ToLower(input)

	switch key {
	case constants.KeyUpdates_Check:
		m.UI().SetStatus(state.StatusInfo, loc.T(i18n.KeyCheckingUpdates), "")
		return m, h.cmdBuilder.CheckUpdatesCmd()

	case constants.KeyUpdates_Quit:
		return m, h.cmdBuilder.QuitCmd()
	}

	if strings.HasPrefix(key, constants.KeyUpdates_DetailPrefix) {
		return h.openDetail(m, input)
	}

	idx := constants.MenuIndexForKey(key)
	if idx < 0 || idx >= len(m.Page().MenuItems()) {
		h.invalidInput(m)
		return m, nil
	}
	return h.runMenuAction(m, idx)
}

// runMenuAction 執行頁面菜單項
func (h *KeyHandler) runMenuAction(m *state.Manager, idx int) (*state.Manager, tea.Cmd) {
	action, err := m.Page().HandleAction(idx)
	if err != nil {
		// 切換進行中再次觸發直接忽略
		if errors.Is(err, errors.ErrToggleBusy) {
			h.log.Debug("channel toggle busy, ignore trigger")
			return m, nil
		}
		h.invalidInput(m)
		return m, nil
	}

	switch action {
	case application.ActionSkippedToggled:
		m.UI().ClearStatus()
		return m, nil

	case application.ActionConfirmRequired:
		m.Updates().Confirm = m.Page().JoinBetaDialog()
		return m, m.UI().SwitchView(state.ConfirmView)

	case application.ActionApplyRequired:
		return m, h.startApply(m)
	}
	return m, nil
}

func (h *KeyHandler) submitConfirm(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch strings.ToLower(input) {
	case constants.KeyConfirm_Yes:
		if err := m.Page().ConfirmToggle(); err != nil {
			h.log.Debug("confirm ignored", zap.Error(err))
			m.Updates().ClearConfirm()
			return m, m.UI().SwitchView(state.UpdatesView)
		}
		m.Updates().ClearConfirm()
		cmd := m.UI().SwitchView(state.UpdatesView)
		return m, tea.Batch(cmd, h.startApply(m))

	case constants.KeyConfirm_No:
		return h.cancelConfirm(m)

	default:
		h.invalidInput(m)
		return m, nil
	}
}

// startApply 標記切換中並發出請求
func (h *KeyHandler) startApply(m *state.Manager) tea.Cmd {
	m.Updates().Applying = true
	m.UI().SetStatus(state.StatusInfo, m.Localizer().T(i18n.KeyApplying), "")
	return tea.Batch(h.cmdBuilder.ApplyToggleCmd(), m.UI().Spinner.Tick)
}

func (h *KeyHandler) cancelConfirm(m *state.Manager) (*state.Manager, tea.Cmd) {
	m.CancelConfirm()
	return m, m.UI().SwitchView(state.UpdatesView)
}

// openDetail 處理 i<N>
func (h *KeyHandler) openDetail(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	loc := m.Localizer()

	n, ok := inputvalidator.ParseDetailIndex(input)
	if !ok {
		h.invalidInput(m)
		return m, nil
	}

	entities := m.Page().Entities()
	if n > len(entities) {
		m.UI().SetStatus(state.StatusWarn, loc.Tf(i18n.KeyRowOutOfRange, n), "")
		return m, nil
	}

	m.Updates().DetailEntityID = entities[n-1].EntityID
	return m, m.UI().SwitchView(state.DetailView)
}

func (h *KeyHandler) invalidInput(m *state.Manager) {
	m.UI().SetStatus(state.StatusWarn, m.Localizer().T(i18n.KeyInvalidInput), "")
}

// ========================================
// 返回邏輯 (Esc 觸發)
// ========================================

func (h *KeyHandler) handleInputEscape(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	m.UI().ClearInput()

	switch view {
	case state.ConfirmView:
		return h.cancelConfirm(m)

	case state.DetailView:
		m.Updates().DetailEntityID = ""
		return m, m.UI().SwitchView(state.UpdatesView)

	case state.UpdatesView:
		// 頂層頁面 Esc 即退出
		return m, h.cmdBuilder.QuitCmd()
	}

	return m, m.UI().SwitchView(state.UpdatesView)
}
