package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yat-Muk/hassup/internal/infra/hass"
	"github.com/Yat-Muk/hassup/internal/tui/msg"
)

// StreamSource 推送 update 實體快照的狀態流
type StreamSource interface {
	Run(ctx context.Context, emit func(hass.StreamEvent)) error
}

// RunStream 把狀態流事件轉為 tea 消息，阻塞直到狀態流退出
// send 通常是 (*tea.Program).Send
func RunStream(ctx context.Context, src StreamSource, send func(tea.Msg)) {
	err := src.Run(ctx, func(ev hass.StreamEvent) {
		if ev.Snapshot != nil {
			send(msg.SnapshotMsg{Snapshot: ev.Snapshot})
		}
		send(msg.StreamStatusMsg{Connected: ev.Connected, Err: ev.Err})
	})
	if ctx.Err() != nil {
		return
	}
	send(msg.StreamClosedMsg{Err: err})
}
