package httputil

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the best-effort caller address: the first X-Forwarded-For hop,
// then X-Real-IP, then the socket peer.
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	return c.RemoteIP()
}
