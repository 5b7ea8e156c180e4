// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/i18n"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", negotiateLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// negotiateLanguage picks the first language in an Accept-Language header
// that has a catalog, e.g. "zh-TW,zh;q=0.9,en;q=0.8" yields zh_TW.
func negotiateLanguage(header, defaultLang string) string {
	supported := make(map[string]bool)
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}

	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" || tag == "*" {
			continue
		}

		// Convert common language codes
		switch tag {
		case "zh-TW", "zh-Hant", "zh-HK", "zh_TW":
			tag = "zh_TW"
		default:
			tag = strings.ReplaceAll(tag, "-", "_")
		}

		if supported[tag] {
			return tag
		}
		if base := strings.Split(tag, "_")[0]; supported[base] {
			return base
		}
	}
	return defaultLang
}
