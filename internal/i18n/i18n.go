package i18n

import (
	"fmt"
	"strings"

	"github.com/craftmart-shop/internal/constants"

	"github.com/gin-gonic/gin"
)

// 支持的站点语言
const (
	LocaleEN = constants.LocaleEnUS
	LocaleZH = constants.LocaleZhCN
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

// T 取指定语言的文案，缺失时回退默认语言，再缺失返回 key 本身。
func T(locale, key string) string {
	normalized := Normalize(locale)
	if catalog, ok := catalogs[normalized]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if normalized != DefaultLocale {
		if msg, ok := catalogs[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 取文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Normalize 把任意语言标记归一到受支持的 locale
func Normalize(locale string) string {
	value := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(value, "zh"):
		return LocaleZH
	case strings.HasPrefix(value, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求解析语言：lang 查询参数优先，其次 Accept-Language。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Normalize(lang)
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return DefaultLocale
	}
	first := header
	if idx := strings.IndexAny(header, ",;"); idx >= 0 {
		first = header[:idx]
	}
	return Normalize(first)
}
