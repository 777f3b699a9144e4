package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	"github.com/Yat-Muk/hassup/internal/tui/state"
)

// 單次宿主調用的超時
const (
	defaultMountTimeout  = 10 * time.Second
	defaultCheckTimeout  = 30 * time.Second
	defaultToggleTimeout = 60 * time.Second
)

// Config 用於初始化 Handlers 的配置結構體
type Config struct {
	Log      *zap.Logger
	StateMgr *state.Manager
	Page     *application.UpdatesPage

	// Ctx 程序退出時取消，所有宿主調用從它派生
	Ctx context.Context
}
