package model

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/tui/handlers"
	"github.com/Yat-Muk/hassup/internal/tui/msg"
	"github.com/Yat-Muk/hassup/internal/tui/state"
)

// Router 事件路由器
type Router struct {
	stateMgr   *state.Manager
	keyHandler *handlers.KeyHandler
	cmdBuilder *handlers.CommandBuilder
	log        *zap.Logger
}

// NewRouter 創建路由器
func NewRouter(cfg *handlers.Config) *Router {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	cmdBuilder := handlers.NewCommandBuilder(cfg)

	return &Router{
		stateMgr:   cfg.StateMgr,
		keyHandler: handlers.NewKeyHandler(cfg.StateMgr, cmdBuilder, log),
		cmdBuilder: cmdBuilder,
		log:        log,
	}
}

// InitModel 用於 Model.Init 調用
func (r *Router) InitModel() tea.Cmd {
	return tea.Batch(
		r.stateMgr.UI().TextInput.Focus(),
		r.stateMgr.UI().Spinner.Tick,
		r.cmdBuilder.MountCmd(),
	)
}

// Update 處理一條消息
func (r *Router) Update(message tea.Msg) tea.Cmd {
	return r.routeMessage(message)
}

// View 渲染當前視圖
func (r *Router) View() string {
	return r.stateMgr.Render()
}

// routeMessage 內部路由邏輯
func (r *Router) routeMessage(message tea.Msg) tea.Cmd {
	m := r.stateMgr
	ui := m.UI()
	loc := m.Localizer()

	switch msgType := message.(type) {

	case tea.WindowSizeMsg:
		ui.UpdateSize(msgType.Width, msgType.Height)
		return nil

	case tea.KeyMsg:
		_, cmd := r.keyHandler.Handle(msgType, m)
		return cmd

	case msg.MountedMsg:
		m.Updates().Mounted = true
		return nil

	case msg.SnapshotMsg:
		m.Page().SetSnapshot(msgType.Snapshot)
		return nil

	case msg.StreamStatusMsg:
		up := m.Updates()
		up.Connected = msgType.Connected
		up.ConnErr = ""
		if msgType.Err != nil {
			up.ConnErr = msgType.Err.Error()
		}
		return nil

	case msg.StreamClosedMsg:
		up := m.Updates()
		up.Connected = false
		if msgType.Err == nil {
			return nil
		}
		r.log.Error("state stream stopped", zap.Error(msgType.Err))
		up.ConnErr = msgType.Err.Error()
		if errors.Is(msgType.Err, errors.ErrUnauthorized) {
			return m.ShowAlert(errors.ExtractAPIErrorMessage(msgType.Err))
		}
		return nil

	case msg.CheckResultMsg:
		if msgType.Err != nil {
			r.log.Warn("update check failed", zap.Error(msgType.Err))
			ui.ClearStatus()
			return m.ShowAlert(m.Page().CheckErrorMessage(msgType.Err))
		}
		ui.SetStatus(state.StatusSuccess, loc.T(i18n.KeyCheckStarted), "")
		return nil

	case msg.ToggleResultMsg:
		m.Updates().Applying = false
		if msgType.Err != nil {
			ui.ClearStatus()
			return m.ShowAlert(application.AlertMessage(msgType.Err))
		}
		ui.SetStatus(state.StatusSuccess, loc.Tf(i18n.KeyChannelChanged, msgType.Channel.String()), "")
		return nil

	default:
		var cmd tea.Cmd
		ui.Spinner, cmd = ui.Spinner.Update(message)
		return tea.Batch(cmd, ui.UpdateInput(message))
	}
}
