package logger

import (
	"os"

	"github.com/Yat-Muk/hassup/internal/pkg/sanitizer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日誌配置
type Config struct {
	Level      string // debug, info, warn, error
	OutputPath string // 日誌文件路徑
	MaxSize    int    // 單個文件最大大小（MB）
	MaxBackups int    // 保留的舊日誌文件數量
	MaxAge     int    // 保留的天數
	Compress   bool   // 是否壓縮
	Console    bool   // 是否輸出到 stderr
}

// DefaultConfig 返回默認配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		OutputPath: "/var/log/hassup/hassup.log",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
		Console:    false,
	}
}

// New 創建新的日誌記錄器
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core

	// 文件輸出 (JSON)
	if cfg.OutputPath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			level,
		))
	}

	// 控制台輸出走 stderr，stdout 留給命令結果
	if cfg.Console {
		consoleEncoder := encoderConfig
		consoleEncoder.EncodeLevel = zapcore.CapitalColorLevelEncoder

		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoder),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	logger := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return logger, nil
}

// String 創建字符串字段
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Int 創建整數字段
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Error 創建錯誤字段
func Error(err error) zap.Field {
	return zap.Error(err)
}

// — 脫敏日誌字段 —

// SanitizedAPIKey 訪問令牌字段
func SanitizedAPIKey(key, val string) zap.Field {
	return zap.String(key, sanitizer.APIKey(val))
}

// SanitizedURL 去掉憑據的 URL 字段
func SanitizedURL(key, val string) zap.Field {
	return zap.String(key, sanitizer.URL(val))
}

// SanitizedError 錯誤文本中可能帶有令牌 (例如回顯的請求頭)
func SanitizedError(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", MaskSensitive(err.Error()))
}
