package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
)

// Verifier 管理员校验.
type Verifier interface {
	Verify(ctx context.Context) (admin.Principal, error)
}

// RequireAdmin 每个请求都重新执行管理员校验，通过后把主体写入 request context.
// 结果不缓存：会话被撤销或管理员标记被移除后，下一个请求即失败.
func RequireAdmin(gate Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := gate.Verify(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(gateStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(admin.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func gateStatus(err error) int {
	switch {
	case errors.Is(err, admin.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, admin.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, admin.ErrProfileLookup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
