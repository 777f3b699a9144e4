package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/application"
	domainConfig "github.com/Yat-Muk/hassup/internal/domain/config"
	"github.com/Yat-Muk/hassup/internal/i18n"
	infraConfig "github.com/Yat-Muk/hassup/internal/infra/config"
	"github.com/Yat-Muk/hassup/internal/infra/hass"
	"github.com/Yat-Muk/hassup/internal/pkg/appctx"
	"github.com/Yat-Muk/hassup/internal/pkg/crypto"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/logger"
	"github.com/Yat-Muk/hassup/internal/tui/handlers"
	"github.com/Yat-Muk/hassup/internal/tui/state"
)

// globalOptions 所有子命令共享的參數
type globalOptions struct {
	dir   string
	debug bool
	lang  string
}

// AppDependencies 命令運行所需的依賴
type AppDependencies struct {
	Log       *zap.Logger
	Paths     *appctx.Paths
	Config    *domainConfig.AtomicContainer
	ConfigSvc *application.ConfigService
	Localizer *i18n.Localizer
}

// initializeDependencies 不訪問網絡，連接在 connect 中完成
// console 為 true 時日誌同時輸出到 stderr，TUI 模式下必須關閉
func initializeDependencies(opts *globalOptions, console bool) (*AppDependencies, error) {
	// ==========================================
	// 1. 基礎設施層
	// ==========================================
	paths, err := appctx.NewPaths(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("初始化路徑失敗: %w", err)
	}

	log, err := newLogger(paths, domainConfig.DefaultConfig().Log, opts, console)
	if err != nil {
		return nil, fmt.Errorf("日誌初始化失敗: %w", err)
	}

	encryptor, err := crypto.NewEncryptor(paths.KeyFile, "server-token")
	if err != nil {
		return nil, fmt.Errorf("初始化加密器失敗: %w", err)
	}
	configRepo := infraConfig.NewFileRepository(paths.ConfigFile, encryptor, log)

	// ==========================================
	// 2. 加載配置
	// ==========================================
	cfg, err := configRepo.Load(context.Background())
	if err != nil {
		log.Warn("加載配置失敗，使用默認值", zap.Error(err))
		cfg = domainConfig.DefaultConfig()
	}

	// 配置文件中的日誌參數覆蓋默認值
	if cfg.Log != domainConfig.DefaultConfig().Log {
		if custom, err := newLogger(paths, cfg.Log, opts, console); err == nil {
			log = custom
		} else {
			log.Warn("配置中的日誌參數無效，保留默認日誌", zap.Error(err))
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if opts.lang != "" {
		cfg.UI.Language = opts.lang
	}

	loc, err := i18n.New(i18n.DetectLanguage(cfg.UI.Language))
	if err != nil {
		return nil, fmt.Errorf("加載語言包失敗: %w", err)
	}

	// ==========================================
	// 3. 應用服務層
	// ==========================================
	return &AppDependencies{
		Log:       log,
		Paths:     paths,
		Config:    domainConfig.NewAtomicContainer(cfg),
		ConfigSvc: application.NewConfigService(configRepo, log),
		Localizer: loc,
	}, nil
}

// newLogger 根據配置創建日誌，--debug 強制 debug 級別
func newLogger(paths *appctx.Paths, lc domainConfig.LogConfig, opts *globalOptions, console bool) (*zap.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.OutputPath = paths.LogFile
	if lc.OutputPath != "" {
		cfg.OutputPath = lc.OutputPath
	}
	if lc.Level != "" {
		cfg.Level = lc.Level
	}
	if lc.MaxSize > 0 {
		cfg.MaxSize = lc.MaxSize
	}
	if lc.MaxBackups > 0 {
		cfg.MaxBackups = lc.MaxBackups
	}
	if lc.MaxAge > 0 {
		cfg.MaxAge = lc.MaxAge
	}
	cfg.Compress = lc.Compress
	cfg.Console = console && opts.debug
	if opts.debug {
		cfg.Level = "debug"
	}
	return logger.New(cfg)
}

// clientFactory 與 hass.NewClient 簽名一致
type clientFactory func(opts hass.ClientOptions, log *zap.Logger) (*hass.Client, error)

func clientOptions(cfg *domainConfig.Config) hass.ClientOptions {
	return hass.ClientOptions{
		URL:                cfg.Server.URL,
		Token:              cfg.Server.Token,
		CAFile:             cfg.Server.CAFile,
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
		Timeout:            cfg.Server.Timeout,
	}
}

// connect 創建客戶端並加載 Core 配置
// 未登錄時返回的錯誤提示運行 hassup login
func (d *AppDependencies) connect(ctx context.Context, newClient clientFactory) (*hass.Client, error) {
	cfg := d.Config.Get()
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, errors.ErrNoToken) || errors.Is(err, errors.ErrNoServerURL) {
			return nil, fmt.Errorf("%w (請先運行 hassup login)", err)
		}
		return nil, err
	}

	client, err := newClient(clientOptions(cfg), d.Log)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeClient, "創建客戶端失敗")
	}

	if _, err := client.LoadConfig(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeConnect, "連接 Home Assistant 失敗")
	}
	return client, nil
}

// newHandlerConfig 組裝 TUI 所需的狀態與處理器配置
func (d *AppDependencies) newHandlerConfig(ctx context.Context, client *hass.Client) *handlers.Config {
	page := application.NewUpdatesPage(client, d.Localizer, d.Log)

	stateMgr := state.NewManager(&state.Config{
		Log:       d.Log,
		Page:      page,
		Localizer: d.Localizer,
	})

	return &handlers.Config{
		Log:      d.Log,
		StateMgr: stateMgr,
		Page:     page,

		Ctx: ctx,
	}
}

// redirectStdErr TUI 佔用終端時把第三方庫的 stderr 輸出寫入文件
func redirectStdErr(filename string) {
	_ = os.MkdirAll(filepath.Dir(filename), 0755)
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err == nil {
		os.Stderr = f
	}
}
