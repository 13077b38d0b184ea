package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const (
	mongoSlowThreshold = 200 * time.Millisecond
	mongoCommandLimit  = 1000
)

// 连接握手与心跳命令不记录
var quietMongoCommands = map[string]struct{}{
	"hello": {}, "isMaster": {}, "ismaster": {}, "ping": {}, "endSessions": {}, "saslStart": {}, "saslContinue": {},
}

// NewMongoMonitor 记录命令执行情况，超过 200ms 视为慢查询
func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if quiet(evt.CommandName) {
				return
			}
			cmdStr := evt.Command.String()
			if len(cmdStr) > mongoCommandLimit {
				cmdStr = cmdStr[:mongoCommandLimit] + "...[truncated]"
			}
			log.DebugContext(ctx, "MongoDB Started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("cmd_detail", cmdStr),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if quiet(evt.CommandName) && evt.Duration <= mongoSlowThreshold {
				return
			}
			fields := []any{
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
			}
			if evt.Duration > mongoSlowThreshold {
				log.WarnContext(ctx, "MongoDB Slow", fields...)
				return
			}
			log.DebugContext(ctx, "MongoDB Success", fields...)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}

func quiet(command string) bool {
	_, ok := quietMongoCommands[command]
	return ok
}
