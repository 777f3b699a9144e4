package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// 觸發實體刷新的服務
const (
	ServiceDomain       = "homeassistant"
	ServiceUpdateEntity = "update_entity"
	ComponentHassio     = "hassio"
)

// 僅用於收集 ID，順序無關
var idOrderLang = language.Und

// UpdateCheckHost 檢查更新所需的宿主能力
type UpdateCheckHost interface {
	ComponentChecker
	ServiceCaller
	RefreshSupervisorUpdates(ctx context.Context) error
}

// UpdateChecker 請求宿主刷新所有 update 實體
// 不跟蹤進行中的狀態，結果由狀態流推送
type UpdateChecker struct {
	host   UpdateCheckHost
	logger *zap.Logger
}

// NewUpdateChecker 創建檢查器
func NewUpdateChecker(host UpdateCheckHost, logger *zap.Logger) *UpdateChecker {
	return &UpdateChecker{host: host, logger: logger}
}

// Check 返回被請求刷新的實體數量
// 有 Supervisor 時先讓其刷新可用更新，失敗則不再繼續
func (c *UpdateChecker) Check(ctx context.Context, snap *update.Snapshot) (int, error) {
	if c.host.IsComponentLoaded(ComponentHassio) {
		if err := c.host.RefreshSupervisorUpdates(ctx); err != nil {
			c.logger.Warn("supervisor refresh failed", zap.Error(err))
			return 0, fmt.Errorf("刷新 Supervisor 更新失敗: %w", err)
		}
	}

	ids := update.EntityIDs(update.FilterUpdateEntities(snap, idOrderLang))
	if len(ids) == 0 {
		return 0, errors.ErrNoUpdateEntities
	}

	err := c.host.CallService(ctx, ServiceDomain, ServiceUpdateEntity, map[string]any{
		"entity_id": ids,
	})
	if err != nil {
		return 0, fmt.Errorf("調用 %s.%s 失敗: %w", ServiceDomain, ServiceUpdateEntity, err)
	}

	c.logger.Info("update check requested", zap.Int("entities", len(ids)))
	return len(ids), nil
}
