package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/pkg/appctx"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// TogglePhase 頻道切換流程所處階段
type TogglePhase int

const (
	PhaseIdle TogglePhase = iota
	PhaseConfirming
	PhaseApplying
)

func (p TogglePhase) String() string {
	switch p {
	case PhaseConfirming:
		return "confirming"
	case PhaseApplying:
		return "applying"
	default:
		return "idle"
	}
}

// 切換步驟
const (
	StepSetOption = "set_option"
	StepReload    = "reload"
)

// ToggleError 切換失敗；Message 為展示給用戶的文本
type ToggleError struct {
	Target  supervisor.Channel
	Step    string
	Message string
	Err     error
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("切換到 %s 失敗 (%s): %s", e.Target, e.Step, e.Message)
}

func (e *ToggleError) Unwrap() error { return e.Err }

// AlertMessage 錯誤的提示文本
func AlertMessage(err error) string {
	var te *ToggleError
	if errors.As(err, &te) {
		return te.Message
	}
	return errors.ExtractAPIErrorMessage(err)
}

// ChannelToggle stable <-> beta 切換流程
// Idle -> Confirming (離開 stable 時) -> Applying -> Idle
type ChannelToggle struct {
	host   SupervisorHost
	logger *zap.Logger

	mu     sync.Mutex
	phase  TogglePhase
	target supervisor.Channel
	flowID string
}

// NewChannelToggle 創建切換流程
func NewChannelToggle(host SupervisorHost, logger *zap.Logger) *ChannelToggle {
	return &ChannelToggle{host: host, logger: logger}
}

// Phase 當前階段
func (t *ChannelToggle) Phase() TogglePhase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Target 本次切換的目標頻道，Idle 時為空
func (t *ChannelToggle) Target() supervisor.Channel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Begin 開始一次切換，返回是否需要確認
func (t *ChannelToggle) Begin(info *supervisor.Info) (bool, error) {
	if !info.CanToggleChannel() {
		return false, errors.ErrToggleUnavailable
	}
	target, _ := info.Channel.Opposite()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseIdle {
		t.logger.Debug("channel toggle ignored", zap.String("phase", t.phase.String()), zap.String("flow_id", t.flowID))
		return false, errors.ErrToggleBusy
	}

	t.target = target
	t.flowID = uuid.NewString()
	needsConfirm := info.Channel == supervisor.ChannelStable
	if needsConfirm {
		t.phase = PhaseConfirming
	} else {
		t.phase = PhaseApplying
	}

	t.logger.Info("channel toggle started",
		zap.String("flow_id", t.flowID),
		zap.String("from", info.Channel.String()),
		zap.String("to", target.String()),
		zap.Bool("confirm", needsConfirm),
	)
	return needsConfirm, nil
}

// Confirm 用戶確認
func (t *ChannelToggle) Confirm() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseConfirming {
		return fmt.Errorf("%w: 當前階段 %s", errors.ErrToggleUnavailable, t.phase)
	}
	t.phase = PhaseApplying
	t.logger.Debug("channel toggle confirmed", zap.String("flow_id", t.flowID))
	return nil
}

// Cancel 用戶取消；只在 Confirming 階段生效
func (t *ChannelToggle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseConfirming {
		return
	}
	t.logger.Info("channel toggle cancelled", zap.String("flow_id", t.flowID))
	t.resetLocked()
}

func (t *ChannelToggle) resetLocked() {
	t.phase = PhaseIdle
	t.target = ""
	t.flowID = ""
}

// Apply 寫入頻道選項後重載 Supervisor
// 寫入失敗時不會重載；無論成敗都回到 Idle
func (t *ChannelToggle) Apply(ctx context.Context) error {
	t.mu.Lock()
	if t.phase != PhaseApplying {
		phase := t.phase
		t.mu.Unlock()
		return fmt.Errorf("%w: 當前階段 %s", errors.ErrToggleUnavailable, phase)
	}
	target, flowID := t.target, t.flowID
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.resetLocked()
		t.mu.Unlock()
	}()

	// 客戶端請求日誌按 flow_id 關聯
	ctx = appctx.WithFlowID(ctx, flowID)
	log := t.logger.With(zap.String("flow_id", flowID), zap.String("target", target.String()))

	if err := t.host.SetSupervisorOption(ctx, supervisor.Options{Channel: target}); err != nil {
		log.Error("set supervisor channel failed", zap.Error(err))
		return &ToggleError{Target: target, Step: StepSetOption, Message: errors.ExtractAPIErrorMessage(err), Err: err}
	}

	if err := t.host.ReloadSupervisor(ctx); err != nil {
		log.Error("reload supervisor failed", zap.Error(err))
		return &ToggleError{Target: target, Step: StepReload, Message: errors.ExtractAPIErrorMessage(err), Err: err}
	}

	log.Info("supervisor channel switched")
	return nil
}

// Run 一次完成 Begin、確認與 Apply，供 CLI 使用
// 用戶拒絕時返回 ErrToggleCancelled
func (t *ChannelToggle) Run(ctx context.Context, info *supervisor.Info, confirmer Confirmer, req ConfirmRequest) (supervisor.Channel, error) {
	needsConfirm, err := t.Begin(info)
	if err != nil {
		return "", err
	}
	target := t.Target()

	if needsConfirm {
		if confirmer == nil || !confirmer.Confirm(ctx, req) {
			t.Cancel()
			return "", errors.ErrToggleCancelled
		}
		if err := t.Confirm(); err != nil {
			return "", err
		}
	}

	if err := t.Apply(ctx); err != nil {
		return "", err
	}
	return target, nil
}
