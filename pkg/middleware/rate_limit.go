package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

const (
	limiterIdleTTL   = 15 * time.Minute
	limiterSweepEach = 5 * time.Minute
)

// clientLimiters 按客户端键保存限流器，闲置超过 limiterIdleTTL 的条目在下次清扫时移除.
type clientLimiters struct {
	mu        sync.Mutex
	rule      configs.RateLimitRule
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func (cl *clientLimiters) allow(key string, now time.Time) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.lastSweep) >= limiterSweepEach {
		for k, e := range cl.entries {
			if now.Sub(e.seen) > limiterIdleTTL {
				delete(cl.entries, k)
			}
		}

		cl.lastSweep = now
	}

	e, ok := cl.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(cl.rule.PerMinute/60), cl.rule.Burst)}
		cl.entries[key] = e
	}

	e.seen = now

	return e.lim.AllowN(now, 1)
}

// RateLimitMiddleware 对 scope 按客户端限流，超限返回 429 并带 Retry-After.
func RateLimitMiddleware(scope string, cfg configs.RateLimitConfig) gin.HandlerFunc {
	r := cfg.Rule(scope)
	if !cfg.Enabled || r.PerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cl := &clientLimiters{rule: r, entries: map[string]*limiterEntry{}, lastSweep: time.Now()}
	header, byHeader := strings.CutPrefix(strings.TrimSpace(cfg.Key), "header:")
	retryAfter := strconv.Itoa(int(math.Ceil(60 / r.PerMinute)))

	return func(c *gin.Context) {
		key := c.ClientIP()
		if byHeader {
			if v := c.GetHeader(header); v != "" {
				key = v
			}
		}

		if !cl.allow(key, time.Now()) {
			metrics.RateLimited.WithLabelValues(scope).Inc()
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})

			return
		}

		c.Next()
	}
}
