package logger

import (
	"fmt"

	"github.com/Yat-Muk/hassup/internal/pkg/sanitizer"
	"go.uber.org/zap"
)

// SafeLogger 安全日誌接口：所有文本先脫敏再輸出
// WebSocket 原始幀等可能夾帶令牌的內容必須走這裡
type SafeLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
}

// MaskSensitive 脫敏敏感信息
func MaskSensitive(input string) string {
	return sanitizer.Sanitize(input).(string)
}

type safeLogger struct {
	logger *zap.SugaredLogger
}

// NewSafeLogger 創建安全日誌
func NewSafeLogger(logger *zap.Logger) SafeLogger {
	return &safeLogger{logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (sl *safeLogger) Debugf(format string, args ...interface{}) {
	sl.logger.Debug(MaskSensitive(fmt.Sprintf(format, args...)))
}

func (sl *safeLogger) Infof(format string, args ...interface{}) {
	sl.logger.Info(MaskSensitive(fmt.Sprintf(format, args...)))
}

func (sl *safeLogger) Warnf(format string, args ...interface{}) {
	sl.logger.Warn(MaskSensitive(fmt.Sprintf(format, args...)))
}

func (sl *safeLogger) Errorf(format string, args ...interface{}) {
	sl.logger.Error(MaskSensitive(fmt.Sprintf(format, args...)))
}

// Debugw 值一律脫敏；鍵名本身敏感時整體替換
func (sl *safeLogger) Debugw(msg string, keysAndValues ...interface{}) {
	safe := make([]interface{}, 0, len(keysAndValues))
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			safe = append(safe, key)
			break
		}
		value := fmt.Sprintf("%v", keysAndValues[i+1])
		if isSensitiveKey(key) {
			safe = append(safe, key, sanitizer.Password(value))
		} else {
			safe = append(safe, key, MaskSensitive(value))
		}
	}
	sl.logger.Debugw(MaskSensitive(msg), safe...)
}

func isSensitiveKey(key string) bool {
	switch key {
	case "token", "access_token", "password", "secret", "authorization":
		return true
	}
	return false
}
