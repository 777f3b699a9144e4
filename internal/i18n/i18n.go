// Package i18n 提供按 key 查找的界面文案
// 目錄以 YAML 嵌入二進制，未翻譯的 key 回退到英文，再回退到 key 本身
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// 已提供的語言，第一個為默認
var supported = []language.Tag{
	language.English,
	language.TraditionalChinese,
}

var (
	matcher = language.NewMatcher(supported)

	loadOnce sync.Once
	catalogs map[language.Tag]map[string]string
	loadErr  error
)

func localeFile(tag language.Tag) string {
	if tag == language.TraditionalChinese {
		return "locales/zh-Hant.yaml"
	}
	return "locales/en.yaml"
}

func load() {
	catalogs = make(map[language.Tag]map[string]string, len(supported))
	for _, tag := range supported {
		data, err := localeFS.ReadFile(localeFile(tag))
		if err != nil {
			loadErr = fmt.Errorf("讀取語言文件失敗: %w", err)
			return
		}
		m := make(map[string]string)
		if err := yaml.Unmarshal(data, &m); err != nil {
			loadErr = fmt.Errorf("解析語言文件 %s 失敗: %w", tag, err)
			return
		}
		catalogs[tag] = m
	}
}

// Localizer 單一語言的查找器
type Localizer struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// Match 將用戶輸入的語言 (BCP 47 或 POSIX locale) 匹配到已支持的語言
func Match(raw string) language.Tag {
	raw = normalizePOSIX(raw)
	if raw == "" {
		return supported[0]
	}
	desired, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(desired) == 0 {
		return supported[0]
	}
	_, idx, _ := matcher.Match(desired...)
	return supported[idx]
}

// normalizePOSIX zh_TW.UTF-8 -> zh-TW
func normalizePOSIX(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "C" || raw == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(raw, "_", "-")
}

// DetectLanguage 配置為空時依次讀取 LC_ALL、LC_MESSAGES、LANG
func DetectLanguage(configured string) string {
	if configured != "" {
		return configured
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

// New 創建查找器
func New(lang string) (*Localizer, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}

	tag := Match(lang)
	return &Localizer{
		tag:      tag,
		messages: catalogs[tag],
		fallback: catalogs[supported[0]],
	}, nil
}

// Tag 當前語言，用於排序規則
func (l *Localizer) Tag() language.Tag {
	if l == nil {
		return supported[0]
	}
	return l.tag
}

// T 查找文案
func (l *Localizer) T(key string) string {
	if l == nil {
		return key
	}
	if msg, ok := l.messages[key]; ok && msg != "" {
		return msg
	}
	if msg, ok := l.fallback[key]; ok && msg != "" {
		return msg
	}
	return key
}

// Tf 查找並格式化
func (l *Localizer) Tf(key string, args ...any) string {
	return fmt.Sprintf(l.T(key), args...)
}
