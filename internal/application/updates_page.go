package application

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// ViewState 頁面本地狀態，掛載時創建，卸載時丟棄
type ViewState struct {
	ShowSkipped bool
	Supervisor  *supervisor.Info
}

// 菜單項 ID
const (
	MenuSkipped = "skipped"
	MenuBeta    = "beta"
)

// MenuItem 溢出菜單中的一項
type MenuItem struct {
	ID    string
	Label string
}

// Action HandleAction 的結果
type Action int

const (
	ActionNone Action = iota
	// ActionSkippedToggled 已切換顯示跳過的更新
	ActionSkippedToggled
	// ActionConfirmRequired 需要展示確認框
	ActionConfirmRequired
	// ActionApplyRequired 無需確認，調用方應執行 ApplyToggle
	ActionApplyRequired
)

// UpdatesPage 更新頁面的視圖模型
type UpdatesPage struct {
	host    Host
	loc     *i18n.Localizer
	logger  *zap.Logger
	memo    *update.Memo
	toggle  *ChannelToggle
	checker *UpdateChecker

	mu         sync.Mutex
	mounted    bool
	generation uint64
	state      ViewState
	snap       *update.Snapshot
}

// NewUpdatesPage 創建頁面
func NewUpdatesPage(host Host, loc *i18n.Localizer, logger *zap.Logger) *UpdatesPage {
	return NewUpdatesPageWithFilter(host, loc, logger, update.InstallFilter(loc.Tag()))
}

// NewUpdatesPageWithFilter 可注入過濾函數
func NewUpdatesPageWithFilter(host Host, loc *i18n.Localizer, logger *zap.Logger, filter update.FilterFunc) *UpdatesPage {
	return &UpdatesPage{
		host:    host,
		loc:     loc,
		logger:  logger,
		memo:    update.NewMemo(filter),
		toggle:  NewChannelToggle(host, logger),
		checker: NewUpdateChecker(host, logger),
	}
}

// Mount 初始化頁面狀態並在 Supervisor 可用時獲取其信息
// 獲取失敗只記錄日誌，Beta 菜單項不會出現
func (p *UpdatesPage) Mount(ctx context.Context) {
	p.mu.Lock()
	p.mounted = true
	p.generation++
	gen := p.generation
	p.state = ViewState{}
	p.mu.Unlock()

	if !p.host.IsComponentLoaded(ComponentHassio) {
		p.logger.Debug("hassio not loaded, skip supervisor info")
		return
	}

	info, err := p.host.FetchSupervisorInfo(ctx)
	if err != nil {
		p.logger.Warn("fetch supervisor info failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted || p.generation != gen {
		p.logger.Debug("drop supervisor info after unmount")
		return
	}
	p.state.Supervisor = info
}

// Unmount 丟棄本地狀態，之後到達的結果被忽略
func (p *UpdatesPage) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = false
	p.state = ViewState{}
	p.memo.Reset()
	p.toggle.Cancel()
}

// Mounted 是否已掛載
func (p *UpdatesPage) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// State 當前狀態的副本
func (p *UpdatesPage) State() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetSnapshot 接收狀態流推送的新快照
func (p *UpdatesPage) SetSnapshot(s *update.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = s
}

// Snapshot 最近一次的快照
func (p *UpdatesPage) Snapshot() *update.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// ToggleShowSkipped 返回切換後的值
func (p *UpdatesPage) ToggleShowSkipped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.ShowSkipped = !p.state.ShowSkipped
	return p.state.ShowSkipped
}

// Entities 當前應展示的可安裝實體
func (p *UpdatesPage) Entities() []update.Entity {
	p.mu.Lock()
	snap, showSkipped := p.snap, p.state.ShowSkipped
	p.mu.Unlock()
	return p.memo.Get(snap, showSkipped)
}

// MenuItems 溢出菜單；Beta 項只在已獲取 Supervisor 信息且不在 dev 頻道時出現
func (p *UpdatesPage) MenuItems() []MenuItem {
	st := p.State()

	skipped := MenuItem{ID: MenuSkipped, Label: p.loc.T(i18n.KeyShowSkipped)}
	if st.ShowSkipped {
		skipped.Label = p.loc.T(i18n.KeyHideSkipped)
	}
	items := []MenuItem{skipped}

	if st.Supervisor != nil && st.Supervisor.Channel != supervisor.ChannelDev {
		label := p.loc.T(i18n.KeyLeaveBeta)
		if st.Supervisor.Channel == supervisor.ChannelStable {
			label = p.loc.T(i18n.KeyJoinBeta)
		}
		items = append(items, MenuItem{ID: MenuBeta, Label: label})
	}
	return items
}

// HandleAction 處理菜單選擇，index 與 MenuItems 的位置對應
func (p *UpdatesPage) HandleAction(index int) (Action, error) {
	switch index {
	case 0:
		p.ToggleShowSkipped()
		return ActionSkippedToggled, nil
	case 1:
		needsConfirm, err := p.toggle.Begin(p.State().Supervisor)
		if err != nil {
			return ActionNone, err
		}
		if needsConfirm {
			return ActionConfirmRequired, nil
		}
		return ActionApplyRequired, nil
	default:
		return ActionNone, nil
	}
}

// ConfirmToggle 確認框點擊確認
func (p *UpdatesPage) ConfirmToggle() error {
	return p.toggle.Confirm()
}

// CancelToggle 確認框點擊取消
func (p *UpdatesPage) CancelToggle() {
	p.toggle.Cancel()
}

// ApplyToggle 執行切換，錯誤用 AlertMessage 轉換為提示文本
// 成功後不修改本地狀態
func (p *UpdatesPage) ApplyToggle(ctx context.Context) (supervisor.Channel, error) {
	target := p.toggle.Target()
	if err := p.toggle.Apply(ctx); err != nil {
		return "", err
	}
	return target, nil
}

// TogglePhase 切換流程當前階段
func (p *UpdatesPage) TogglePhase() TogglePhase {
	return p.toggle.Phase()
}

// JoinBetaDialog 確認框內容
func (p *UpdatesPage) JoinBetaDialog() ConfirmRequest {
	return JoinBetaDialog(p.loc)
}

// CheckUpdates 請求宿主檢查更新
func (p *UpdatesPage) CheckUpdates(ctx context.Context) (int, error) {
	return p.checker.Check(ctx, p.Snapshot())
}

// CheckErrorMessage 檢查更新失敗時的提示
func (p *UpdatesPage) CheckErrorMessage(err error) string {
	if errors.Is(err, errors.ErrNoUpdateEntities) {
		return p.loc.T(i18n.KeyNoUpdateEntities)
	}
	return p.loc.Tf(i18n.KeyUpdateError, errors.ExtractAPIErrorMessage(err))
}
