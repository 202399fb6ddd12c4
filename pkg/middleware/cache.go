package middleware

import (
	"bytes"
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

const (
	// DefaultMaxBodyBytes 超过该大小的响应不缓存.
	DefaultMaxBodyBytes = 1 << 20
	// BypassHeader 请求带此头时跳过响应缓存.
	BypassHeader = "X-Cache-Bypass"

	storeTimeout = 2 * time.Second
)

// ResponseCacheConfig 公开读接口的响应缓存配置.
type ResponseCacheConfig struct {
	Cache        *appcache.Cache
	Prefix       string        // 键前缀，与 PurgeResponseCache 使用的前缀一致
	TTL          time.Duration // <= 0 时不缓存
	MaxBodyBytes int
	Skipper      func(*gin.Context) bool
}

// cachedResponse 存入 KV 的响应.
type cachedResponse struct {
	Status      int    `json:"s"`
	ContentType string `json:"ct,omitempty"`
	Body        []byte `json:"b,omitempty"`
	ETag        string `json:"e"`
	StoredAt    int64  `json:"t"`
}

// ResponseCache 缓存 GET/HEAD 的 200 响应.
// 命中时写 X-Cache: HIT，If-None-Match 与缓存的 ETag 一致时返回 304.
// 缓存读写失败只记录日志，不影响请求.
func ResponseCache(cfg ResponseCacheConfig) gin.HandlerFunc {
	if cfg.Cache == nil || cfg.TTL <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	l := log.Component("response-cache")

	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodGet && method != http.MethodHead {
			c.Next()
			return
		}

		if c.GetHeader(BypassHeader) != "" || (cfg.Skipper != nil && cfg.Skipper(c)) {
			c.Next()
			return
		}

		key := responseKey(cfg.Prefix, c)

		if hit, err := appcache.Get[cachedResponse](c.Request.Context(), cfg.Cache, key); err == nil {
			replay(c, hit)
			return
		}

		c.Header("X-Cache", "MISS")

		w := &captureWriter{ResponseWriter: c.Writer, limit: cfg.MaxBodyBytes}
		c.Writer = w
		c.Next()

		if c.Writer.Status() != http.StatusOK || w.overflow || method == http.MethodHead {
			return
		}

		if strings.Contains(strings.ToLower(c.Writer.Header().Get("Cache-Control")), "no-store") {
			return
		}

		body := bytes.Clone(w.buf.Bytes())
		entry := cachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        body,
			ETag:        `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`,
			StoredAt:    time.Now().Unix(),
		}

		// 请求结束后 context 会被取消，写入使用独立的超时
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), storeTimeout)
		go func() {
			defer cancel()

			if err := appcache.Set(ctx, cfg.Cache, key, entry, cfg.TTL); err != nil {
				l.Warn().Err(err).Str("key", key).Msg("store cached response failed")
			}
		}()
	}
}

// PurgeResponseCache 在写操作成功后删除 prefix 下的缓存响应.
func PurgeResponseCache(c *appcache.Cache, prefix string) gin.HandlerFunc {
	if c == nil {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	l := log.Component("response-cache")

	return func(ctx *gin.Context) {
		ctx.Next()

		if ctx.Request.Method == http.MethodGet || ctx.Writer.Status() >= http.StatusBadRequest {
			return
		}

		n, err := c.DeletePattern(ctx.Request.Context(), prefix+":*")
		if err != nil {
			l.Warn().Err(err).Str("prefix", prefix).Msg("purge cached responses failed")
			return
		}

		l.Debug().Str("prefix", prefix).Int("removed", n).Msg("purged cached responses")
	}
}

func replay(c *gin.Context, hit cachedResponse) {
	h := c.Writer.Header()
	h.Set("ETag", hit.ETag)
	h.Set("X-Cache", "HIT")
	h.Set("Age", strconv.FormatInt(max(time.Now().Unix()-hit.StoredAt, 0), 10))

	if c.GetHeader("If-None-Match") == hit.ETag {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}

	if c.Request.Method == http.MethodHead {
		c.AbortWithStatus(hit.Status)
		return
	}

	c.Data(hit.Status, hit.ContentType, hit.Body)
	c.Abort()
}

// responseKey 由请求路径与排序后的查询参数组成.
func responseKey(prefix string, c *gin.Context) string {
	var b strings.Builder

	b.WriteString(c.Request.URL.Path)

	q := c.Request.URL.Query()
	keys := make([]string, 0, len(q))

	for k := range q {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(q[k], ","))
	}

	return prefix + ":" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// captureWriter 透传响应并保留至多 limit 字节的副本.
type captureWriter struct {
	gin.ResponseWriter

	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.buf.Len()+len(b) > w.limit {
			w.overflow = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
