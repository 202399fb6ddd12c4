package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
)

// TestCircuitBreaker_OpensOnServerErrors 连续 5xx 后返回 503，探活路径不受影响.
func TestCircuitBreaker_OpensOnServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CircuitBreakerMiddleware(configs.CircuitBreakerConfig{
		Enabled:     true,
		FailureRate: 0.5,
		MinRequests: 2,
		Window:      time.Minute,
		OpenFor:     time.Minute,
		HalfOpenMax: 1,
	}))
	r.GET("/api/v1/careers", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	r.GET("/api/v1/health/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		return w
	}

	assert.Equal(t, http.StatusBadGateway, get("/api/v1/careers").Code)
	assert.Equal(t, http.StatusBadGateway, get("/api/v1/careers").Code)

	w := get("/api/v1/careers")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("/api/v1/health/live").Code)
}

// TestCircuitBreaker_Disabled 关闭时直接放行.
func TestCircuitBreaker_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CircuitBreakerMiddleware(configs.CircuitBreakerConfig{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for range 5 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}
