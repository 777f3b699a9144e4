package update

import (
	"sync"

	"golang.org/x/text/language"
)

// FilterFunc 過濾函數簽名
type FilterFunc func(s *Snapshot, showSkipped bool) []Entity

// InstallFilter 綁定語言的 FilterWithInstall
func InstallFilter(lang language.Tag) FilterFunc {
	return func(s *Snapshot, showSkipped bool) []Entity {
		return FilterWithInstall(s, showSkipped, lang)
	}
}

// Memo 只記住最近一次輸入/輸出
// 快照指針或 showSkipped 變化時才重新計算
type Memo struct {
	mu      sync.Mutex
	fn      FilterFunc
	valid   bool
	snap    *Snapshot
	skipped bool
	result  []Entity
}

// NewMemo 包裝過濾函數
func NewMemo(fn FilterFunc) *Memo {
	return &Memo{fn: fn}
}

// Get 返回緩存或重新計算的結果
// 返回的切片與緩存共享，調用方不得修改
func (m *Memo) Get(s *Snapshot, showSkipped bool) []Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.snap == s && m.skipped == showSkipped {
		return m.result
	}

	m.result = m.fn(s, showSkipped)
	m.snap = s
	m.skipped = showSkipped
	m.valid = true
	return m.result
}

// Reset 清空緩存
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.snap = nil
	m.result = nil
}
