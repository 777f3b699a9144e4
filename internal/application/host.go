package application

import (
	"context"

	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/i18n"
)

// SupervisorHost Supervisor 相關的宿主操作
type SupervisorHost interface {
	FetchSupervisorInfo(ctx context.Context) (*supervisor.Info, error)
	SetSupervisorOption(ctx context.Context, opts supervisor.Options) error
	ReloadSupervisor(ctx context.Context) error
	RefreshSupervisorUpdates(ctx context.Context) error
}

// ServiceCaller 調用 Home Assistant 服務
type ServiceCaller interface {
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}

// ComponentChecker 查詢組件是否已加載
type ComponentChecker interface {
	IsComponentLoaded(name string) bool
}

// Host 更新頁面依賴的全部宿主能力
type Host interface {
	SupervisorHost
	ServiceCaller
	ComponentChecker
}

// ConfirmRequest 確認框內容
type ConfirmRequest struct {
	Title        string
	Paragraphs   []string
	Items        []string
	Question     string
	ConfirmLabel string
	DismissLabel string
}

// Confirmer 阻塞式確認，用於非 TUI 調用方
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) bool
}

// ConfirmFunc 函數適配 Confirmer
type ConfirmFunc func(ctx context.Context, req ConfirmRequest) bool

func (f ConfirmFunc) Confirm(ctx context.Context, req ConfirmRequest) bool {
	return f(ctx, req)
}

// JoinBetaDialog 加入 Beta 頻道的確認框
func JoinBetaDialog(l *i18n.Localizer) ConfirmRequest {
	return ConfirmRequest{
		Title:        l.T(i18n.KeyBetaTitle),
		Paragraphs:   []string{l.T(i18n.KeyBetaWarning), l.T(i18n.KeyBetaBackup), l.T(i18n.KeyBetaReleaseItems)},
		Items:        i18n.BetaReleaseItems,
		Question:     l.T(i18n.KeyBetaConfirm),
		ConfirmLabel: l.T(i18n.KeyJoinBeta),
		DismissLabel: l.T(i18n.KeyCancel),
	}
}
