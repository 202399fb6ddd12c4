// Package context 把存储资源放入请求 context，并为日志补充追踪字段.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
)

type managerKey struct{}

// WithStorageManager 将 Manager 存入 context.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, mgr)
}

// GetManager 取出 Manager，未注入时为 nil.
func GetManager(ctx context.Context) *storage.Manager {
	mgr, _ := ctx.Value(managerKey{}).(*storage.Manager)
	return mgr
}

// WithTraceContext 在 span 记录中时为 logger 加上 trace_id 与 span_id.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
}
