package middleware

import (
	"Blogstone/internal/pkg/consts"
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// CommonMiddleware 推导本次请求的站点地址，用于拼接相对路径图片
// X-Forwarded-* 只在直连方属于 trustedProxies (CIDR 或 IP) 时采用
func CommonMiddleware(trustedProxies []string) gin.HandlerFunc {
	prefixes := parsePrefixes(trustedProxies)

	return func(c *gin.Context) {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		host := c.Request.Host

		if fromTrustedProxy(c.RemoteIP(), prefixes) {
			if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
				scheme = proto
			}
			if fwd := strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Host"), ",")[0]); fwd != "" {
				host = fwd
			}
		}

		newCtx := context.WithValue(c.Request.Context(), consts.BaseURL, fmt.Sprintf("%s://%s", scheme, host))
		c.Request = c.Request.WithContext(newCtx)
		c.Next()
	}
}

func parsePrefixes(list []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(list))
	for _, s := range list {
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p)
		} else if a, err := netip.ParseAddr(s); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}

func fromTrustedProxy(remoteIP string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
