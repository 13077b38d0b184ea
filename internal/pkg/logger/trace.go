package logger

import (
	"context"
	log "log/slog"
)

// Context 中的日志字段
const (
	TraceIDKey = "trace_id"
	UserIDKey  = "user_id"
)

// ContextHandler 从 ctx 中提取 trace_id 与 user_id 附加到每条日志
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		for _, key := range []string{TraceIDKey, UserIDKey} {
			if v, ok := ctx.Value(key).(string); ok && v != "" {
				r.AddAttrs(log.String(key, v))
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
