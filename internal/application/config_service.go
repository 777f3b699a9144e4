package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/config"
	"github.com/Yat-Muk/hassup/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/hassup/internal/pkg/logger"
)

// ConfigService 配置服務
type ConfigService struct {
	repo   config.Repository
	logger *zap.Logger
	mu     sync.Mutex
}

// NewConfigService 創建配置服務
func NewConfigService(repo config.Repository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:   repo,
		logger: logger,
	}
}

// GetConfig 獲取當前配置
func (s *ConfigService) GetConfig(ctx context.Context) (*config.Config, error) {
	return s.repo.Load(ctx)
}

// UpdateConfig 原子更新配置
// Lock -> Load -> DeepCopy -> Modify -> Validate -> Save -> Unlock
func (s *ConfigService) UpdateConfig(ctx context.Context, modifier func(*config.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentCfg, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("加載配置失敗: %w", err)
	}

	newCfg := currentCfg.DeepCopy()

	if err := modifier(newCfg); err != nil {
		return fmt.Errorf("應用配置修改失敗: %w", err)
	}
	newCfg.FillDefaults()

	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("新配置驗證失敗: %w", err)
	}

	if err := s.repo.Save(ctx, newCfg); err != nil {
		return fmt.Errorf("保存配置失敗: %w", err)
	}

	s.logger.Info("配置已更新並保存")
	return nil
}

// Credentials 登錄信息
type Credentials struct {
	URL   string
	Token string
}

// Normalize 去除首尾空白與結尾斜杠
func (c Credentials) Normalize() Credentials {
	return Credentials{
		URL:   strings.TrimRight(strings.TrimSpace(c.URL), "/"),
		Token: strings.TrimSpace(c.Token),
	}
}

// Validate 連接前的格式校驗
func (c Credentials) Validate() error {
	if err := inputvalidator.ValidateServerURL(c.URL); err != nil {
		return err
	}
	return inputvalidator.ValidateToken(c.Token)
}

// Login 校驗格式，通過 verify 確認服務器接受令牌後寫入配置
// verify 為 nil 時只做格式校驗
func (s *ConfigService) Login(ctx context.Context, creds Credentials, verify func(context.Context, Credentials) error) error {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return err
	}

	if verify != nil {
		if err := verify(ctx, creds); err != nil {
			return fmt.Errorf("驗證連接失敗: %w", err)
		}
	}

	err := s.UpdateConfig(ctx, func(c *config.Config) error {
		c.Server.URL = creds.URL
		c.Server.Token = creds.Token
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("登錄信息已保存",
		logger.SanitizedURL("url", creds.URL),
		logger.SanitizedAPIKey("token", creds.Token),
	)
	return nil
}
