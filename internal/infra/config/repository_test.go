package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainConfig "github.com/Yat-Muk/hassup/internal/domain/config"
	"github.com/Yat-Muk/hassup/internal/pkg/crypto"
)

const testToken = "eyJhbGciOiJIUzI1NiJ9.payload.signature"

func newEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()
	t.Setenv(crypto.MasterKeyEnv, "")
	enc, err := crypto.NewEncryptor(filepath.Join(t.TempDir(), "master.key"), "token")
	require.NoError(t, err)
	return enc
}

func TestFileRepository_Load_NonExistent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.yaml")
	repo := NewFileRepository(configPath, nil, zap.NewNop())

	// 文件不存在應返回默認配置
	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainConfig.DefaultConfig(), cfg)
}

func TestFileRepository_SaveAndLoad_EncryptsToken(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	repo := NewFileRepository(configPath, newEncryptor(t), zap.NewNop())
	ctx := context.Background()

	cfg := domainConfig.DefaultConfig()
	cfg.Server.URL = "https://ha.example.com"
	cfg.Server.Token = testToken
	cfg.UI.Language = "zh-Hant"

	require.NoError(t, repo.Save(ctx, cfg))

	// 驗證文件權限
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// 磁盤上只有密文
	raw, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), testToken)
	assert.Contains(t, string(raw), crypto.EncryptedPrefix)

	// 調用方的對象不應被加密
	assert.Equal(t, testToken, cfg.Server.Token)

	// 使用新倉庫實例繞過緩存
	repo2 := NewFileRepository(configPath, repo.encryptor, zap.NewNop())
	loaded, err := repo2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testToken, loaded.Server.Token)
	assert.Equal(t, "https://ha.example.com", loaded.Server.URL)
	assert.Equal(t, "zh-Hant", loaded.UI.Language)
}

func TestFileRepository_Load_PlaintextToken(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  url: http://ha.local:8123/\n  token: " + testToken + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	repo := NewFileRepository(configPath, newEncryptor(t), zap.NewNop())
	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testToken, cfg.Server.Token)
	// 缺失字段被補齊
	assert.Equal(t, "http://ha.local:8123", cfg.Server.URL)
	assert.Equal(t, domainConfig.DefaultConfig().Server.Timeout, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFileRepository_Load_WrongKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := context.Background()

	cfg := domainConfig.DefaultConfig()
	cfg.Server.Token = testToken
	require.NoError(t, NewFileRepository(configPath, newEncryptor(t), zap.NewNop()).Save(ctx, cfg))

	_, err := NewFileRepository(configPath, newEncryptor(t), zap.NewNop()).Load(ctx)
	assert.Error(t, err)
}

func TestFileRepository_Load_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0600))

	_, err := NewFileRepository(configPath, nil, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestFileRepository_Cache_ReturnsCopies(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	repo := NewFileRepository(configPath, nil, zap.NewNop())
	ctx := context.Background()

	cfg := domainConfig.DefaultConfig()
	cfg.UI.Language = "en"
	require.NoError(t, repo.Save(ctx, cfg))

	cfg1, err := repo.Load(ctx)
	require.NoError(t, err)
	cfg2, err := repo.Load(ctx)
	require.NoError(t, err)

	cfg1.UI.Language = "modified"
	assert.Equal(t, "en", cfg2.UI.Language, "深拷貝失敗：cfg2 受到了 cfg1 的影響")

	cfg3, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg3.UI.Language)
}

func TestFileRepository_Save_NilConfig(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "config.yaml"), nil, zap.NewNop())

	err := repo.Save(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "配置對象為空")
}

func TestFileRepository_AtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewFileRepository(filepath.Join(tmpDir, "config.yaml"), nil, zap.NewNop())

	require.NoError(t, repo.Save(context.Background(), domainConfig.DefaultConfig()))

	// 不應有臨時文件殘留
	files, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, f := range files {
		assert.False(t, strings.HasSuffix(f.Name(), ".tmp"), f.Name())
	}
}

func TestFileRepository_Concurrent(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "config.yaml"), nil, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, domainConfig.DefaultConfig()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Load(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
