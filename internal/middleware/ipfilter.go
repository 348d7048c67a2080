package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// IPFilterMiddleware blocks requests whose client IP falls in any of the
// configured CIDR ranges. Bare IPs are accepted as /32 (or /128) ranges.
func IPFilterMiddleware(blocklist []string) gin.HandlerFunc {
	blockedCIDRs := make([]*net.IPNet, 0, len(blocklist))
	for _, entry := range blocklist {
		if _, ipNet, err := net.ParseCIDR(entry); err == nil {
			blockedCIDRs = append(blockedCIDRs, ipNet)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			blockedCIDRs = append(blockedCIDRs, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		}
	}

	return func(c *gin.Context) {
		clientIP := net.ParseIP(getClientIP(c))
		if clientIP == nil {
			c.AbortWithStatus(403)
			return
		}

		for _, ipNet := range blockedCIDRs {
			if ipNet.Contains(clientIP) {
				c.AbortWithStatus(403)
				return
			}
		}

		c.Next()
	}
}
