package state

import (
	"github.com/Yat-Muk/hassup/internal/application"
)

// UpdatesState 終端界面自身的展示狀態
// 頁面業務狀態 (ShowSkipped, Supervisor) 由 application.UpdatesPage 持有
type UpdatesState struct {
	Mounted   bool
	Connected bool
	ConnErr   string

	// Applying 頻道切換請求已發出，等待結果
	Applying bool

	// DetailEntityID 詳情頁展示的實體
	DetailEntityID string

	Confirm application.ConfirmRequest
	Alert   string
}

// NewUpdatesState 創建更新頁狀態
func NewUpdatesState() *UpdatesState {
	return &UpdatesState{}
}

// ShowAlert 記錄提示文本
func (s *UpdatesState) ShowAlert(text string) {
	s.Alert = text
}

// DismissAlert 關閉提示框
func (s *UpdatesState) DismissAlert() {
	s.Alert = ""
}

// ClearConfirm 丟棄確認框內容
func (s *UpdatesState) ClearConfirm() {
	s.Confirm = application.ConfirmRequest{}
}
