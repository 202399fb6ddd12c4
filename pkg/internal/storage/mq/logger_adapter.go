package mq

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// watermillLogger 把 watermill 日志写入 zerolog. watermill 的 Info 大多是订阅
// 生命周期信息，降为 Debug 输出.
type watermillLogger struct {
	log zerolog.Logger
}

// NewLoggerAdapter 返回写入 l 的 watermill.LoggerAdapter.
func NewLoggerAdapter(l zerolog.Logger) watermill.LoggerAdapter {
	return watermillLogger{log: l}
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.log.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.log.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.log.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{log: w.log.With().Fields(map[string]any(fields)).Logger()}
}
