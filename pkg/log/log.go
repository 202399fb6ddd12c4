// Package log 提供全局 zerolog logger.
//
// 输出到 stderr，格式由 log.format 决定：json 适合容器日志采集，console 适合本地开发.
// 开启 log.enable_file 时同时以 JSON 写入 lumberjack 轮转文件. 配置热加载后日志级别随之更新.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

var (
	current    atomic.Pointer[zerolog.Logger]
	reloadOnce sync.Once
)

// Init 按当前配置重建全局 logger，配置加载完成后调用.
func Init() {
	cfg := configs.GetConfig()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(cfg.Log.Level))

	l := New(cfg.Log, cfg.Server.Debug)
	current.Store(&l)
	zlog.Logger = l

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reloadOnce.Do(func() {
		configs.OnReload(func(c *configs.AppConfig) {
			zerolog.SetGlobalLevel(ParseLevel(c.Log.Level))
		})
	})
}

// ParseLevel 解析日志级别，空值或无法识别时为 info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return lvl
}

// New 按配置构建 logger，debug 为 true 时附带调用位置.
func New(cfg configs.LogConfig, debug bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Format == configs.LogFormatConsole {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	if cfg.EnableFile && cfg.FilePath != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	ctx := zerolog.New(out).With().Timestamp().Str("service", "smittan")
	if debug {
		ctx = ctx.Caller()
	}

	return ctx.Logger()
}

// Logger 返回全局 logger，Init 之前调用时按默认配置初始化.
func Logger() *zerolog.Logger {
	if l := current.Load(); l != nil {
		return l
	}

	Init()

	return current.Load()
}

// Component 返回带 component 字段的子 logger.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// GinWriter 把 gin 写到 DefaultWriter 的文本行转为 zerolog 事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

// NewGinWriter 创建按固定级别转发的 GinWriter.
func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	for line := range strings.Lines(string(p)) {
		line = strings.TrimPrefix(strings.TrimSpace(line), "[GIN-debug] ")
		if line != "" {
			w.logger.WithLevel(w.level).Str("source", "gin").Msg(line)
		}
	}

	return len(p), nil
}
