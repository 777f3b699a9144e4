package sanitizer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// 敏感字段關鍵詞 (Fast Path 過濾用)
var sensitiveKeywords = []string{
	"token", "bearer", "authorization", "password", "secret", "eyj", "access_token",
}

// 預編譯正則表達式 (Slow Path 用)
var (
	// Home Assistant 長期訪問令牌是 JWT：三段 base64url
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{8,}\.[a-zA-Z0-9_-]{8,}\.[a-zA-Z0-9_-]{8,}`)
	// Authorization: Bearer xxx
	bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9._~+/=-]{8,})`)
	// "access_token":"xxx" / token=xxx
	tokenFieldRegex = regexp.MustCompile(`(?i)("?(?:access_token|token|password|secret)"?\s*[:=]\s*"?)([^"\s,}&]{4,})`)
)

// Sanitize 對任意對象進行脫敏處理 (通常用於日誌輸出)
func Sanitize(v interface{}) interface{} {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("sanitize_error: %v", err)
		}
		s = string(bytes)
	}

	// Fast Path：沒有任何關鍵詞時直接返回
	if !mightContainSensitiveData(s) {
		return s
	}

	return sanitizeString(s)
}

// sanitizeString 執行具體的正則替換
func sanitizeString(s string) string {
	s = jwtRegex.ReplaceAllStringFunc(s, APIKey)
	s = bearerRegex.ReplaceAllStringFunc(s, func(match string) string {
		parts := bearerRegex.FindStringSubmatch(match)
		return parts[1] + APIKey(parts[2])
	})
	s = tokenFieldRegex.ReplaceAllStringFunc(s, func(match string) string {
		parts := tokenFieldRegex.FindStringSubmatch(match)
		if strings.Contains(parts[2], "***") {
			return match
		}
		return parts[1] + Password(parts[2])
	})
	return s
}

// mightContainSensitiveData 快速檢查
func mightContainSensitiveData(s string) bool {
	sLower := strings.ToLower(s)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(sLower, kw) {
			return true
		}
	}
	return false
}

// String 通用字符串脫敏 (保留首尾)
func String(s string, start, end int) string {
	if len(s) <= start+end {
		return "***"
	}
	return s[:start] + "***" + s[len(s)-end:]
}

// Password 密碼全脫敏
func Password(s string) string {
	if s == "" {
		return ""
	}
	return "***MASKED***"
}

// APIKey API Key 脫敏 (保留前後四位)
func APIKey(s string) string {
	if s == "" {
		return ""
	}
	if len(s) < 12 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

// URL 去掉 userinfo 和查詢參數中的令牌
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	q := u.Query()
	for key := range q {
		if mightContainSensitiveData(key) {
			q.Set(key, "redacted")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
