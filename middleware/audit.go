package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// Proxy headers checked for the originating client IP, in order of trust.
var clientIPHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "CF-Connecting-IP", "X-Forwarded"}

// AuditMiddleware resolves the client IP once per request and stashes it in
// the context so audit writes down the chain all record the same address.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	for _, header := range clientIPHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may carry a proxy chain, the client is first
		candidate := strings.TrimSpace(strings.Split(value, ",")[0])
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// GetIPFromContext returns the IP resolved by AuditMiddleware, falling back
// to resolving it on the spot for handlers mounted outside the middleware.
func GetIPFromContext(c *gin.Context) string {
	if ip, exists := c.Get("client_ip"); exists {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return resolveClientIP(c)
}
