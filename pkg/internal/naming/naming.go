// Package naming 生成上传对象的唯一路径名.
//
// 名称格式为 {epochMillis}-{token}-{sanitized}，sanitized 仅保留 [A-Za-z0-9.-]，
// token 取自进程内单调递增的 ULID 熵源，同一毫秒内的多次调用也不会重复.
package naming

import (
	crand "crypto/rand"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// TokenLength token 长度，取 ULID 随机部分的末尾字符.
const TokenLength = 10

// fallbackName 原始文件名全部被过滤时使用的名称.
const fallbackName = "file"

var (
	entropyMu sync.Mutex
	// ulid.Monotonic 不是并发安全的，访问需持有 entropyMu.
	entropy = ulid.Monotonic(crand.Reader, 0)
)

// Sanitize 将原始文件名中 [A-Za-z0-9.-] 以外的字符全部去除.
func Sanitize(original string) string {
	var b strings.Builder

	b.Grow(len(original))

	for _, r := range original {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return fallbackName
	}

	return b.String()
}

// Name 按固定格式拼接名称，是纯函数.
func Name(original string, now time.Time, token string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + token + "-" + Sanitize(original)
}

// Token 返回一个进程内不重复的 10 位 Crockford base32 token.
func Token() string {
	return tokenAt(time.Now())
}

func tokenAt(t time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyMu.Unlock()

	s := id.String()

	return strings.ToLower(s[len(s)-TokenLength:])
}

// Policy 命名策略，Now 可替换以便测试.
type Policy struct {
	Now func() time.Time
}

// Default 使用系统时钟的命名策略.
var Default = Policy{Now: time.Now}

// Generate 使用当前时间和新 token 生成名称.
func (p Policy) Generate(original string) string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	t := now()

	return Name(original, t, tokenAt(t))
}

// Generate 使用默认策略生成名称.
func Generate(original string) string {
	return Default.Generate(original)
}

// Join 拼接目录前缀与名称，去除多余的斜杠.
func Join(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// Extension 返回小写扩展名（含点），没有扩展名时返回空串.
func Extension(name string) string {
	return strings.ToLower(path.Ext(name))
}
