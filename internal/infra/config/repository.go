package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domainConfig "github.com/Yat-Muk/hassup/internal/domain/config"
	"github.com/Yat-Muk/hassup/internal/pkg/crypto"
)

// FileRepository 基於文件的配置倉庫實現
type FileRepository struct {
	filePath     string
	mu           sync.RWMutex
	fileMu       sync.Mutex // 用於文件 I/O 的互斥鎖
	encryptor    *crypto.Encryptor
	logger       *zap.Logger
	cachedConfig *domainConfig.Config
	lastModTime  time.Time
}

func NewFileRepository(path string, encryptor *crypto.Encryptor, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		filePath:  path,
		encryptor: encryptor,
		logger:    logger,
	}
}

// Load 加載配置（支持緩存、熱重載與自動解密）
// 文件不存在時返回默認配置
func (r *FileRepository) Load(ctx context.Context) (*domainConfig.Config, error) {
	// 快速路徑：文件未變更時直接返回緩存副本
	r.mu.RLock()
	stat, err := os.Stat(r.filePath)
	if os.IsNotExist(err) {
		r.mu.RUnlock()
		r.logger.Info("配置文件不存在，使用默認配置", zap.String("path", r.filePath))
		return domainConfig.DefaultConfig(), nil
	}
	if err != nil {
		r.mu.RUnlock()
		return nil, fmt.Errorf("檢查配置文件狀態失敗: %w", err)
	}
	if r.cachedConfig != nil && !stat.ModTime().After(r.lastModTime) {
		cfg := r.cachedConfig.DeepCopy()
		r.mu.RUnlock()
		r.logger.Debug("配置未變更，使用內存緩存")
		return cfg, nil
	}
	r.mu.RUnlock()

	// 慢速路徑：從磁盤重新加載
	r.mu.Lock()
	defer r.mu.Unlock()

	// 雙重檢查，切換鎖期間可能已被其他協程加載
	stat, err = os.Stat(r.filePath)
	if os.IsNotExist(err) {
		return domainConfig.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("檢查配置文件狀態失敗: %w", err)
	}
	if r.cachedConfig != nil && !stat.ModTime().After(r.lastModTime) {
		return r.cachedConfig.DeepCopy(), nil
	}

	r.fileMu.Lock()
	content, err := os.ReadFile(r.filePath)
	r.fileMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("讀取配置文件失敗: %w", err)
	}

	cfg := &domainConfig.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件格式失敗: %w", err)
	}

	plaintextToken := cfg.Server.Token != "" && !crypto.IsEncrypted(cfg.Server.Token)

	if r.encryptor != nil {
		if err := cfg.DecryptSensitiveFields(r.encryptor); err != nil {
			// 一般是主密鑰被替換
			r.logger.Error("配置解密失敗", zap.Error(err))
			return nil, fmt.Errorf("解密敏感配置失敗: %w", err)
		}
		if plaintextToken {
			r.logger.Warn("配置文件中的令牌為明文，下次保存時將加密", zap.String("path", r.filePath))
		}
	}

	cfg.FillDefaults()

	r.cachedConfig = cfg.DeepCopy()
	r.lastModTime = stat.ModTime()

	r.logger.Info("配置文件已從磁盤加載",
		zap.String("path", r.filePath),
		zap.Time("mod_time", r.lastModTime),
	)

	return cfg, nil
}

// Save 保存配置到文件（原子寫入，權限 600）
func (r *FileRepository) Save(ctx context.Context, cfg *domainConfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("配置對象為空")
	}

	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	cfgCopy := cfg.DeepCopy()
	if r.encryptor != nil {
		if err := cfgCopy.EncryptSensitiveFields(r.encryptor); err != nil {
			return fmt.Errorf("加密配置失敗: %w", err)
		}
	}

	data, err := yaml.Marshal(cfgCopy)
	if err != nil {
		return fmt.Errorf("序列化配置失敗: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("創建配置目錄失敗: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "config.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("創建臨時文件失敗: %w", err)
	}
	tmpName := tmpFile.Name()

	writeSuccess := false
	defer func() {
		if !writeSuccess {
			tmpFile.Close()
			os.Remove(tmpName)
		}
	}()

	// 先收緊權限再寫入令牌
	if err := tmpFile.Chmod(0600); err != nil {
		return fmt.Errorf("設置文件權限失敗: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("寫入數據失敗: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("同步磁盤失敗: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("關閉臨時文件失敗: %w", err)
	}
	if err := os.Rename(tmpName, r.filePath); err != nil {
		return fmt.Errorf("替換配置文件失敗: %w", err)
	}

	writeSuccess = true

	r.mu.Lock()
	r.cachedConfig = cfg.DeepCopy() // 緩存未加密的版本
	if stat, err := os.Stat(r.filePath); err == nil {
		r.lastModTime = stat.ModTime()
	}
	r.mu.Unlock()

	r.logger.Debug("配置已保存", zap.String("path", r.filePath))
	return nil
}
