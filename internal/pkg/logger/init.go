package logger

import (
	"Blogstone/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"time"
)

// LogWriter 访问日志输出，连上 Logstash 后同时写入远端
var LogWriter io.Writer = os.Stdout

func InitLogger() {
	level := parseLevel(config.Cfg.Log.Level)
	opts := &log.HandlerOptions{Level: level}

	var root log.Handler = log.NewJSONHandler(os.Stdout, opts)
	LogWriter = os.Stdout

	ls := config.Cfg.Logstash
	if ls.Address != "" {
		conn, err := net.DialTimeout("tcp", ls.Address, 3*time.Second)
		if err != nil {
			defer log.Warn("Logstash unreachable, logging to stdout only", "addr", ls.Address, "err", err)
		} else {
			remote := log.NewJSONHandler(conn, opts).WithAttrs([]log.Attr{
				log.String("target_index", ls.Index),
				log.String("log_token", ls.Token),
			})
			root = FanoutHandler{root, requestScoped{remote}}
			LogWriter = io.MultiWriter(os.Stdout, conn)
		}
	}

	log.SetDefault(log.New(&ContextHandler{root}))
}

func parseLevel(s string) log.Level {
	var level log.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return log.LevelInfo
	}
	return level
}
