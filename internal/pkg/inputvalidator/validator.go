package inputvalidator

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// 輸入長度限制常量
const (
	MaxInputBuffer = 4096 // 輸入緩衝區最大長度（4KB）
	MaxMenuInput   = 16   // 菜單輸入最大長度

	MaxURLLength   = 2048
	MaxTokenLength = 1024 // 長期訪問令牌一般在 180 字符左右
)

var (
	menuInputRegex = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
	detailRegex    = regexp.MustCompile(`^[iI](\d{1,4})$`)
)

// ValidationError 驗證錯誤
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLength 驗證字符串長度
func ValidateLength(input string, maxLen int, fieldName string) error {
	if len(input) > maxLen {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("長度超過限制（最大 %d 字符，當前 %d 字符）", maxLen, len(input)),
		}
	}
	return nil
}

// ValidateServerURL 驗證 Home Assistant 地址
func ValidateServerURL(raw string) error {
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return &ValidationError{Field: "server.url", Message: "地址不能為空"}
	}
	if err := ValidateLength(raw, MaxURLLength, "server.url"); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "server.url", Message: "地址格式無效"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "server.url", Message: "僅支持 http 或 https"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "server.url", Message: "缺少主機名"}
	}
	if u.User != nil {
		return &ValidationError{Field: "server.url", Message: "地址中不能包含用戶信息"}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return &ValidationError{Field: "server.url", Message: "地址中不能包含查詢參數"}
	}

	return nil
}

// ValidateToken 驗證訪問令牌
func ValidateToken(token string) error {
	token = strings.TrimSpace(token)

	if token == "" {
		return &ValidationError{Field: "server.token", Message: "令牌不能為空"}
	}
	if len(token) > MaxTokenLength {
		return &ValidationError{
			Field:   "server.token",
			Message: fmt.Sprintf("令牌過長（最大 %d 字符）", MaxTokenLength),
		}
	}
	if !utf8.ValidString(token) {
		return &ValidationError{Field: "server.token", Message: "令牌包含無效的 UTF-8 字符"}
	}

	// 可打印字符檢查（ASCII 33-126），令牌中不應出現空格
	for _, r := range token {
		if r < 33 || r > 126 {
			return &ValidationError{
				Field:   "server.token",
				Message: "令牌包含非法字符 (僅允許 ASCII 可打印字符)",
			}
		}
	}

	return nil
}

// ValidateMenuInput 驗證菜單輸入
func ValidateMenuInput(input string) error {
	input = strings.TrimSpace(input)

	if len(input) > MaxMenuInput {
		return &ValidationError{Field: "menu", Message: "輸入過長"}
	}
	if !menuInputRegex.MatchString(input) {
		return &ValidationError{Field: "menu", Message: "只允許字母和數字"}
	}
	return nil
}

// ParseDetailIndex 解析 "i3" 形式的詳情輸入，返回從 1 開始的序號
func ParseDetailIndex(input string) (int, bool) {
	m := detailRegex.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// TruncateInput 截斷過長的輸入，不切斷多字節字符
func TruncateInput(input string, maxLen int) string {
	if len(input) <= maxLen {
		return input
	}
	cut := 0
	for i := range input {
		if i > maxLen {
			break
		}
		cut = i
	}
	return input[:cut]
}

// SanitizeInput 清理輸入（移除控制字符）
func SanitizeInput(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
