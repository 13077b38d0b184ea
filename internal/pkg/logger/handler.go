package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// FanoutHandler 把同一条记录写给多个下游，任一下游启用即视为启用
type FanoutHandler []log.Handler

func (h FanoutHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, next := range h {
		if next.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h FanoutHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, next := range h {
		if next.Enabled(ctx, r.Level) {
			errs = append(errs, next.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h FanoutHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return h.each(func(next log.Handler) log.Handler { return next.WithAttrs(attrs) })
}

func (h FanoutHandler) WithGroup(name string) log.Handler {
	return h.each(func(next log.Handler) log.Handler { return next.WithGroup(name) })
}

func (h FanoutHandler) each(fn func(log.Handler) log.Handler) FanoutHandler {
	out := make(FanoutHandler, len(h))
	for i, next := range h {
		out[i] = fn(next)
	}
	return out
}

// requestScoped 丢弃不属于任何请求的记录，启动日志与后台任务日志不上报
type requestScoped struct {
	log.Handler
}

func (h requestScoped) Handle(ctx context.Context, r log.Record) error {
	if id, _ := ctx.Value(TraceIDKey).(string); id != "" {
		return h.Handler.Handle(ctx, r)
	}

	traced := false
	r.Attrs(func(a log.Attr) bool {
		traced = a.Key == TraceIDKey && a.Value.String() != ""
		return !traced
	})
	if !traced {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestScoped) WithAttrs(attrs []log.Attr) log.Handler {
	return requestScoped{h.Handler.WithAttrs(attrs)}
}

func (h requestScoped) WithGroup(name string) log.Handler {
	return requestScoped{h.Handler.WithGroup(name)}
}
