// Package middleware 提供 gin 中间件：会话、管理员校验、限流、响应缓存、追踪、日志与监控.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// hasAnyPrefix 判断 path 是否以任一非空前缀开头.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// bearerToken 读取 Authorization: Bearer 令牌，方案名大小写不敏感.
func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
