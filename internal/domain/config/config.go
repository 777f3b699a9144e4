package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yat-Muk/hassup/internal/pkg/crypto"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/inputvalidator"
)

// 環境變量
const (
	EnvURL             = "HASSUP_URL"
	EnvToken           = "HASSUP_TOKEN"
	EnvSupervisorToken = "SUPERVISOR_TOKEN"

	// SupervisorCoreURL 以 add-on 方式運行時 Core API 的代理地址
	SupervisorCoreURL = "http://supervisor/core"
)

// ConfigVersionLatest 最新配置版本
const ConfigVersionLatest = 1

// Repository 配置倉庫接口
type Repository interface {
	// Load 加載配置
	Load(ctx context.Context) (*Config, error)

	// Save 保存配置
	Save(ctx context.Context, cfg *Config) error
}

// Config 主配置結構
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	UI      UIConfig     `yaml:"ui"`
	Log     LogConfig    `yaml:"log"`
}

// ServerConfig Home Assistant 連接配置
type ServerConfig struct {
	URL                string        `yaml:"url"`
	Token              string        `yaml:"token"` // 磁盤上為 enc: 密文
	CAFile             string        `yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify,omitempty"`
	Timeout            time.Duration `yaml:"timeout"`
}

// UIConfig 界面配置
type UIConfig struct {
	// Language BCP 47 語言標籤，為空時跟隨 LANG
	Language string `yaml:"language,omitempty"`
}

// LogConfig 日誌配置
type LogConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path,omitempty"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig 返回默認配置
func DefaultConfig() *Config {
	return &Config{
		Version: ConfigVersionLatest,
		Server: ServerConfig{
			URL:     "http://homeassistant.local:8123",
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// FillDefaults 補齊舊文件或手寫文件中缺失的字段
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = def.Server.Timeout
	}
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = def.Log.MaxSize
	}
	if c.Log.MaxAge <= 0 {
		c.Log.MaxAge = def.Log.MaxAge
	}
}

// ApplyEnv 用環境變量覆蓋連接配置
// 在 add-on 內運行時優先使用 Supervisor 注入的令牌
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if token := getenv(EnvSupervisorToken); token != "" {
		c.Server.URL = SupervisorCoreURL
		c.Server.Token = token
	}
	if u := getenv(EnvURL); u != "" {
		c.Server.URL = strings.TrimRight(u, "/")
	}
	if token := getenv(EnvToken); token != "" {
		c.Server.Token = token
	}
}

// Validate 驗證連接前的必要配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return errors.ErrNoServerURL
	}
	if err := inputvalidator.ValidateServerURL(c.Server.URL); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	if c.Server.Token == "" {
		return errors.ErrNoToken
	}
	if crypto.IsEncrypted(c.Server.Token) {
		return fmt.Errorf("%w: 令牌尚未解密", errors.ErrConfigInvalid)
	}
	if err := inputvalidator.ValidateToken(c.Server.Token); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: 未知日誌級別 %q", errors.ErrConfigInvalid, c.Log.Level)
	}
	return nil
}

// EncryptSensitiveFields 加密敏感字段
func (c *Config) EncryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}

	if c.Server.Token != "" && !crypto.IsEncrypted(c.Server.Token) {
		encrypted, err := encryptor.Encrypt(c.Server.Token)
		if err != nil {
			return fmt.Errorf("加密訪問令牌失敗: %w", err)
		}
		c.Server.Token = encrypted
	}
	return nil
}

// DecryptSensitiveFields 解密敏感字段；明文令牌保持不變
func (c *Config) DecryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}

	if crypto.IsEncrypted(c.Server.Token) {
		decrypted, err := encryptor.Decrypt(c.Server.Token)
		if err != nil {
			return fmt.Errorf("解密訪問令牌失敗: %w", err)
		}
		c.Server.Token = decrypted
	}
	return nil
}

// DeepCopy 深拷貝配置 (序列化回環)
func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Errorf("DeepCopy 序列化失敗 (這是一個 Bug): %w", err))
	}

	var newCfg Config
	if err := yaml.Unmarshal(data, &newCfg); err != nil {
		panic(fmt.Errorf("DeepCopy 反序列化失敗 (這是一個 Bug): %w", err))
	}

	return &newCfg
}
