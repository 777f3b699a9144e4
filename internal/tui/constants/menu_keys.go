package constants

const (
	// ==========================================
	// 更新頁 (Updates)
	// ==========================================
	KeyUpdates_Check   = "r" // 檢查更新
	KeyUpdates_Skipped = "1" // 顯示/隱藏已略過的更新
	KeyUpdates_Beta    = "2" // 加入/退出 Beta 頻道
	KeyUpdates_Quit    = "q" // 退出程序

	// 詳情前綴，如 i2 打開第 2 行
	KeyUpdates_DetailPrefix = "i"

	// ==========================================
	// 確認框 (Confirm)
	// ==========================================
	KeyConfirm_Yes = "y"
	KeyConfirm_No  = "n"
)

// MenuKeyForIndex 菜單項位置對應的按鍵
func MenuKeyForIndex(i int) string {
	switch i {
	case 0:
		return KeyUpdates_Skipped
	case 1:
		return KeyUpdates_Beta
	default:
		return ""
	}
}

// MenuIndexForKey 按鍵對應的菜單項位置，不是菜單鍵時返回 -1
func MenuIndexForKey(key string) int {
	switch key {
	case KeyUpdates_Skipped:
		return 0
	case KeyUpdates_Beta:
		return 1
	default:
		return -1
	}
}
