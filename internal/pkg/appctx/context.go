package appctx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Paths 定義應用程序所有的關鍵路徑
type Paths struct {
	BaseDir string
	DataDir string
	LogDir  string

	ConfigFile string
	KeyFile    string
	LogFile    string
	StderrFile string
}

// NewPaths 解析並創建工作目錄
// baseDir 為空時：root 使用 /etc/hassup，普通用戶使用 ~/.hassup
func NewPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		if isProduction() {
			baseDir = "/etc/hassup"
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("無法獲取用戶主目錄: %w", err)
			}
			baseDir = filepath.Join(home, ".hassup")
		}
	}

	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("無法解析絕對路徑: %w", err)
	}

	logDir := filepath.Join(absPath, "logs")
	if isProduction() && baseDir == "/etc/hassup" {
		logDir = "/var/log/hassup"
	}

	paths := &Paths{
		BaseDir:    absPath,
		DataDir:    filepath.Join(absPath, "data"),
		LogDir:     logDir,
		ConfigFile: filepath.Join(absPath, "config.yaml"),
		KeyFile:    filepath.Join(absPath, "data", "master.key"),
		LogFile:    filepath.Join(logDir, "hassup.log"),
		StderrFile: filepath.Join(logDir, "stderr.log"),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir, paths.LogDir} {
		perm := os.FileMode(0700)
		if dir == paths.LogDir {
			perm = 0755
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return nil, fmt.Errorf("無法創建目錄 %s: %w", dir, err)
		}
	}

	return paths, nil
}

func isProduction() bool {
	return os.Geteuid() == 0 || os.Getenv("HASSUP_ENV") == "production"
}

type contextKey string

const flowIDKey contextKey = "flow_id"

// WithFlowID 為一次用戶操作 (例如通道切換) 綁定關聯 ID
func WithFlowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, flowIDKey, id)
}

// FlowID 讀取關聯 ID，不存在時返回空串
func FlowID(ctx context.Context) string {
	if id, ok := ctx.Value(flowIDKey).(string); ok {
		return id
	}
	return ""
}
