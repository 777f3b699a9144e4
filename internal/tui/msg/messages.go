package msg

import (
	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/domain/update"
)

// SnapshotMsg 狀態流推送的新快照
type SnapshotMsg struct {
	Snapshot *update.Snapshot
}

// StreamStatusMsg 狀態流連接狀態變化
type StreamStatusMsg struct {
	Connected bool
	Err       error
}

// StreamClosedMsg 狀態流已退出 (認證失敗或程序退出)
type StreamClosedMsg struct {
	Err error
}

// MountedMsg 頁面掛載完成，Supervisor 信息 (若有) 已寫入頁面狀態
type MountedMsg struct{}

// CheckResultMsg 檢查更新結果
type CheckResultMsg struct {
	Count int
	Err   error
}

// ToggleResultMsg 頻道切換結果
type ToggleResultMsg struct {
	Channel supervisor.Channel
	Err     error
}
