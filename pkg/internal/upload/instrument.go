package upload

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/tracing"
)

// Instrumented 为上传器加上日志、指标、追踪和领域事件.
type Instrumented struct {
	next   Uploader
	events *queue.Events
}

// Instrument 包装上传器，events 可以为 nil.
func Instrument(next Uploader, events *queue.Events) *Instrumented {
	return &Instrumented{next: next, events: events}
}

// Backend 实现 Uploader.
func (u *Instrumented) Backend() Backend { return u.next.Backend() }

// Upload 实现 Uploader.
func (u *Instrumented) Upload(ctx context.Context, p admin.Principal, req Request) (Descriptor, error) {
	backend := string(u.next.Backend())

	ctx, span := tracing.StartSpan(ctx, "upload.Upload", trace.WithAttributes(
		attribute.String("upload.backend", backend),
		attribute.String("upload.file_name", req.FileName),
		attribute.String("upload.content_type", req.ContentType),
		attribute.Int64("upload.size", req.Size()),
	))
	defer span.End()

	start := time.Now()
	d, err := u.next.Upload(ctx, p, req)
	elapsed := time.Since(start)

	kind := KindOf(err)
	metrics.UploadTotal.WithLabelValues(backend, kind).Inc()
	metrics.UploadDuration.WithLabelValues(backend).Observe(elapsed.Seconds())

	logger := log.Component("upload").With().
		Str("backend", backend).
		Str("file_name", req.FileName).
		Str("user_id", p.UserID).
		Dur("elapsed", elapsed).
		Logger()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		logger.Error().Err(err).Str("kind", kind).Msg("upload failed")

		if perr := u.events.UploadFailed(ctx, queue.UploadFailedPayload{
			Backend:  backend,
			FileName: req.FileName,
			Kind:     kind,
			Error:    err.Error(),
			UserID:   p.UserID,
		}); perr != nil {
			logger.Warn().Err(perr).Msg("publish upload failed event")
		}

		return Descriptor{}, err
	}

	span.SetAttributes(
		attribute.String("upload.path", d.Path),
		attribute.Int("upload.attempts", d.Attempts),
	)
	logger.Info().Str("path", d.Path).Int("attempts", d.Attempts).Msg("upload stored")

	if perr := u.events.UploadStored(ctx, queue.UploadStoredPayload{
		Backend:     backend,
		Path:        d.Path,
		PublicURL:   d.PublicURL,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size(),
		UserID:      p.UserID,
		Attempts:    d.Attempts,
	}); perr != nil {
		logger.Warn().Err(perr).Str("path", d.Path).Msg("publish upload stored event")
	}

	return d, nil
}
