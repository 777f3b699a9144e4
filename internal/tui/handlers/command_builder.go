package handlers

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/tui/msg"
)

// CommandBuilder 把宿主調用包裝為 tea.Cmd，結果以消息返回
type CommandBuilder struct {
	ctx  context.Context
	log  *zap.Logger
	page *application.UpdatesPage
}

// NewCommandBuilder 構造函數
func NewCommandBuilder(cfg *Config) *CommandBuilder {
	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandBuilder{
		ctx:  ctx,
		log:  log,
		page: cfg.Page,
	}
}

func (b *CommandBuilder) withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(b.ctx, d)
}

// MountCmd 掛載頁面並獲取 Supervisor 信息
// 獲取失敗由頁面自行記錄，界面只是不顯示 Beta 菜單項
func (b *CommandBuilder) MountCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.withTimeout(defaultMountTimeout)
		defer cancel()

		b.page.Mount(ctx)
		return msg.MountedMsg{}
	}
}

// CheckUpdatesCmd 請求宿主檢查更新
func (b *CommandBuilder) CheckUpdatesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.withTimeout(defaultCheckTimeout)
		defer cancel()

		n, err := b.page.CheckUpdates(ctx)
		return msg.CheckResultMsg{Count: n, Err: err}
	}
}

// ApplyToggleCmd 執行頻道切換 (setOption 然後 reload)
func (b *CommandBuilder) ApplyToggleCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.withTimeout(defaultToggleTimeout)
		defer cancel()

		ch, err := b.page.ApplyToggle(ctx)
		return msg.ToggleResultMsg{Channel: ch, Err: err}
	}
}

// QuitCmd 卸載頁面後退出
func (b *CommandBuilder) QuitCmd() tea.Cmd {
	if b.page != nil {
		b.page.Unmount()
	}
	return tea.Quit
}
