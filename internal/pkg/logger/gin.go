package logger

import (
	"Blogstone/internal/api/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLine struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	ClientIP    string `json:"client_ip"`
	Size        int    `json:"size"`
	Err         string `json:"err,omitempty"`
}

// SetupGin 安装 JSON 访问日志与 Recovery，5xx 与带错误的请求记为 WARN
func SetupGin(r *gin.Engine) {
	var token, index string
	if config.Cfg != nil {
		token, index = config.Cfg.Logstash.Token, config.Cfg.Logstash.Index
	}

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: LogWriter,
		Formatter: func(p gin.LogFormatterParams) string {
			line := accessLine{
				Time:        p.TimeStamp.Format(time.RFC3339),
				Level:       "INFO",
				Msg:         "GIN_ACCESS",
				TraceID:     requestValue(p, TraceIDKey),
				UserID:      requestValue(p, UserIDKey),
				LogToken:    token,
				TargetIndex: index,
				Method:      p.Method,
				Path:        p.Path,
				Status:      p.StatusCode,
				Latency:     p.Latency.String(),
				ClientIP:    p.ClientIP,
				Size:        p.BodySize,
				Err:         p.ErrorMessage,
			}
			if line.Err != "" || line.Status >= 500 {
				line.Level = "WARN"
			}

			b, err := json.Marshal(line)
			if err != nil {
				return ""
			}
			return string(b) + "\n"
		},
	}))

	r.Use(gin.Recovery())
}

// requestValue 先查 gin Keys 再查请求 ctx
func requestValue(p gin.LogFormatterParams, key string) string {
	if v, ok := p.Keys[key].(string); ok && v != "" {
		return v
	}
	if p.Request != nil {
		if v, ok := p.Request.Context().Value(key).(string); ok {
			return v
		}
	}
	return ""
}
