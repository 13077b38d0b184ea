package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const auditBodyLimit = 16384

var redactedFields = []string{"password", "currentPassword", "newPassword", "refreshToken"}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < auditBodyLimit {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录请求与响应，凭据字段脱敏，multipart 请求体不记录
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/ping" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", decodedQuery(c.Request.URL)),
			log.String("req_body", captureRequestBody(c)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(start)),
			log.String("res_body", w.body.String()),
		)
	}
}

// captureRequestBody 读取前 auditBodyLimit 字节后将原始 body 拼回，供后续绑定
func captureRequestBody(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return ""
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return "[omitted]"
	}
	raw, _ := io.ReadAll(io.LimitReader(c.Request.Body, auditBodyLimit+1))
	c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(raw), c.Request.Body), c.Request.Body}
	return redact(raw)
}

type readCloser struct {
	io.Reader
	io.Closer
}

func decodedQuery(u *url.URL) string {
	if q, err := url.QueryUnescape(u.RawQuery); err == nil {
		return q
	}
	return u.RawQuery
}

// redact 隐去请求体中的凭据字段，非 JSON 对象原样截断输出
func redact(raw []byte) string {
	if len(raw) > auditBodyLimit {
		raw = raw[:auditBodyLimit]
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}
	changed := false
	for _, field := range redactedFields {
		if _, ok := body[field]; ok {
			body[field] = "***"
			changed = true
		}
	}
	if !changed {
		return string(raw)
	}
	out, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return string(out)
}
