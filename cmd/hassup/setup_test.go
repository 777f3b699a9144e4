package main

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/h2non/gock.v1"

	domainConfig "github.com/Yat-Muk/hassup/internal/domain/config"
	"github.com/Yat-Muk/hassup/internal/i18n"
	"github.com/Yat-Muk/hassup/internal/infra/hass"
	"github.com/Yat-Muk/hassup/internal/pkg/crypto"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// clearServerEnv 避免宿主環境變量影響測試
func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{domainConfig.EnvURL, domainConfig.EnvToken, domainConfig.EnvSupervisorToken, crypto.MasterKeyEnv} {
		t.Setenv(key, "")
	}
}

func TestInitializeDependencies_Defaults(t *testing.T) {
	clearServerEnv(t)
	opts := &globalOptions{dir: t.TempDir(), lang: "en"}

	deps, err := initializeDependencies(opts, false)
	require.NoError(t, err)

	cfg := deps.Config.Get()
	assert.Equal(t, domainConfig.DefaultConfig().Server.URL, cfg.Server.URL)
	assert.Empty(t, cfg.Server.Token)
	assert.DirExists(t, deps.Paths.DataDir)
	assert.DirExists(t, deps.Paths.LogDir)
	assert.FileExists(t, deps.Paths.KeyFile)

	// 未登錄時不創建客戶端
	_, err = deps.connect(context.Background(), hass.NewClient)
	assert.ErrorIs(t, err, errors.ErrNoToken)
}

func TestInitializeDependencies_EnvOverride(t *testing.T) {
	clearServerEnv(t)
	t.Setenv(domainConfig.EnvURL, "http://ha.test:8123/")
	t.Setenv(domainConfig.EnvToken, "env-token")

	deps, err := initializeDependencies(&globalOptions{dir: t.TempDir(), lang: "en"}, false)
	require.NoError(t, err)

	cfg := deps.Config.Get()
	assert.Equal(t, "http://ha.test:8123", cfg.Server.URL)
	assert.Equal(t, "env-token", cfg.Server.Token)
	assert.NoError(t, cfg.Validate())

	// 環境變量不寫回配置文件
	_, err = os.Stat(deps.Paths.ConfigFile)
	assert.True(t, os.IsNotExist(err))
}

func TestConnect_WrapsFailure(t *testing.T) {
	clearServerEnv(t)
	t.Setenv(domainConfig.EnvURL, testURL)
	t.Setenv(domainConfig.EnvToken, testToken)
	t.Cleanup(gock.Off)

	deps, err := initializeDependencies(&globalOptions{dir: t.TempDir(), lang: "en"}, false)
	require.NoError(t, err)

	gock.New(testURL).Get("/api/config").Reply(401)

	_, err = deps.connect(context.Background(), func(opts hass.ClientOptions, log *zap.Logger) (*hass.Client, error) {
		client, err := hass.NewClient(opts, log)
		if err == nil {
			gock.InterceptClient(client.HTTPClient())
		}
		return client, err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	var appErr *errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.CodeConnect, appErr.Code)
}

func TestInitializeDependencies_Language(t *testing.T) {
	clearServerEnv(t)

	deps, err := initializeDependencies(&globalOptions{dir: t.TempDir(), lang: "zh-Hant"}, false)
	require.NoError(t, err)
	assert.Equal(t, "更新", deps.Localizer.T(i18n.KeyCaption))

	deps, err = initializeDependencies(&globalOptions{dir: t.TempDir(), lang: "en"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Updates", deps.Localizer.T(i18n.KeyCaption))
}

func TestInitializeDependencies_InvalidConfigFallsBack(t *testing.T) {
	clearServerEnv(t)
	dir := t.TempDir()

	opts := &globalOptions{dir: dir, lang: "en"}
	deps, err := initializeDependencies(opts, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(deps.Paths.ConfigFile, []byte("server: [broken"), 0600))

	deps, err = initializeDependencies(opts, false)
	require.NoError(t, err)
	assert.Equal(t, domainConfig.DefaultConfig().Server.URL, deps.Config.Get().Server.URL)
}

func TestNewHandlerConfig(t *testing.T) {
	clearServerEnv(t)
	deps, err := initializeDependencies(&globalOptions{dir: t.TempDir(), lang: "en"}, false)
	require.NoError(t, err)

	client, err := hass.NewClient(hass.ClientOptions{URL: "http://ha.test:8123", Token: "t"}, deps.Log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := deps.newHandlerConfig(ctx, client)
	require.NotNil(t, cfg.StateMgr)
	assert.Same(t, cfg.Page, cfg.StateMgr.Page())
	assert.Equal(t, ctx, cfg.Ctx)
	assert.False(t, cfg.Page.Mounted())
}
