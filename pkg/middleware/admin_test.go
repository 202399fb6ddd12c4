package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
)

// tokenGate 根据 context 中的令牌决定结果，并记录调用次数.
type tokenGate struct {
	calls int
}

func (g *tokenGate) Verify(ctx context.Context) (admin.Principal, error) {
	g.calls++

	switch authn.TokenFrom(ctx) {
	case "":
		return admin.Principal{}, admin.ErrUnauthenticated
	case "admin-token":
		return admin.Principal{UserID: "u-admin", IsAdmin: true}, nil
	case "broken":
		return admin.Principal{}, fmt.Errorf("%w: db down", admin.ErrProfileLookup)
	default:
		return admin.Principal{}, admin.ErrForbidden
	}
}

func newEngine(gate *tokenGate) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(configs.AuthConfig{SessionCookie: "sb-access-token", SkipPaths: []string{"/health"}}))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, authn.TokenFrom(c.Request.Context()))
	})

	g := r.Group("/admin", middleware.RequireAdmin(gate))
	g.GET("/whoami", func(c *gin.Context) {
		p, ok := admin.PrincipalFrom(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}

		c.String(http.StatusOK, p.UserID)
	})

	return r
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no session", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer admin-token") }, http.StatusOK, "u-admin"},
		{"cookie admin", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "admin-token"})
		}, http.StatusOK, "u-admin"},
		{"not admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer user-token") }, http.StatusForbidden, ""},
		{"profile lookup", func(r *http.Request) { r.Header.Set("Authorization", "bearer broken") }, http.StatusBadGateway, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := &tokenGate{}
			r := newEngine(gate)

			req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
			tc.setup(req)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, 1, gate.calls)

			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

// TestRequireAdmin_EveryRequest 每个请求都重新校验.
func TestRequireAdmin_EveryRequest(t *testing.T) {
	gate := &tokenGate{}
	r := newEngine(gate)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
		req.Header.Set("Authorization", "Bearer admin-token")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3, gate.calls)
}

// TestSessionMiddleware_SkipPaths 跳过路径不读取令牌.
func TestSessionMiddleware_SkipPaths(t *testing.T) {
	r := newEngine(&tokenGate{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer admin-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
