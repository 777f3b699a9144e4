package config

import (
	"sync"
	"sync/atomic"
)

// AtomicContainer 運行期配置容器
// Get 無鎖讀取，Update 寫時複製並在替換前驗證
type AtomicContainer struct {
	store atomic.Pointer[Config]
	mu    sync.Mutex
}

// NewAtomicContainer 初始化
func NewAtomicContainer(cfg *Config) *AtomicContainer {
	c := &AtomicContainer{}
	c.store.Store(cfg.DeepCopy())
	return c
}

// Get 獲取當前配置的快照
// 返回值只讀，修改必須通過 Update
func (c *AtomicContainer) Get() *Config {
	return c.store.Load()
}

// Update 原子更新配置：複製 -> 修改副本 -> 驗證 -> 替換
func (c *AtomicContainer) Update(fn func(*Config) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newCfg := c.store.Load().DeepCopy()

	if err := fn(newCfg); err != nil {
		return err
	}
	if err := newCfg.Validate(); err != nil {
		return err
	}

	c.store.Store(newCfg)
	return nil
}
