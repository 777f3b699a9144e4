package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownAPIError 無法從錯誤中提取信息時的提示
const UnknownAPIError = "Unknown error, see supervisor logs"

// 預定義錯誤類型
var (
	// 配置相關
	ErrConfigInvalid = errors.New("configuration is invalid")
	ErrNoServerURL   = errors.New("home assistant url is not configured")
	ErrNoToken       = errors.New("access token is not configured")

	// Home Assistant API
	ErrUnauthorized      = errors.New("access token rejected")
	ErrNotFound          = errors.New("resource not found")
	ErrNotConnected      = errors.New("state stream is not connected")
	ErrComponentMissing  = errors.New("component is not loaded")
	ErrNoUpdateEntities  = errors.New("no update entities")
	ErrSupervisorMissing = errors.New("supervisor is not available")

	// 通道切換
	ErrToggleBusy        = errors.New("channel toggle already in progress")
	ErrToggleUnavailable = errors.New("channel toggle is not available")
	ErrToggleCancelled   = errors.New("channel toggle cancelled")
)

// Error.Code 取值
const (
	CodeClient  = "HassClient"
	CodeConnect = "HassConnect"
)

// Error 自定義錯誤類型
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 創建新錯誤
func New(code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap 包裝錯誤
func Wrap(err error, code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// APIError Home Assistant / Supervisor 返回的非成功響應
type APIError struct {
	Method  string
	Path    string
	Status  int
	Body    string // 原始響應體 (已截斷)
	Message string // 結構化響應中的 message 字段
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap 將狀態碼映射為哨兵錯誤，便於 errors.Is 判斷
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	default:
		return nil
	}
}

// ExtractAPIErrorMessage 提取適合展示給用戶的錯誤文本
// 順序：結構化 message > 原始響應體 > 錯誤本身的文本
func ExtractAPIErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if body := strings.TrimSpace(apiErr.Body); body != "" {
			return body
		}
		return UnknownAPIError
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownAPIError
}

// Is 轉發標準庫，避免調用方同時導入兩個 errors 包
func Is(err, target error) bool { return errors.Is(err, target) }

// As 轉發標準庫
func As(err error, target any) bool { return errors.As(err, target) }
