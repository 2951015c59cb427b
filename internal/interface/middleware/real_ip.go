package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIPKey is the context key read by the rate limiter key functions.
const RealIPKey = "real_ip"

// ParseTrustedProxies turns IPs and CIDRs into networks. Unparseable entries are returned in bad.
func ParseTrustedProxies(entries []string) (nets []*net.IPNet, bad []string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			if ip := net.ParseIP(e); ip != nil {
				bits := 8 * net.IPv4len
				if ip.To4() == nil {
					bits = 8 * net.IPv6len
				}
				nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
				continue
			}
			bad = append(bad, e)
			continue
		}
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
		} else {
			bad = append(bad, e)
		}
	}
	return nets, bad
}

// RealIP stores the client IP under RealIPKey. CF-Connecting-IP and the left-most
// X-Forwarded-For entry are honoured only when the direct peer is a trusted proxy;
// otherwise the peer address is used, so a client cannot pick its own rate-limit key.
func RealIP(trusted []*net.IPNet) gin.HandlerFunc {
	return func(c *gin.Context) {
		peer := peerIP(c)
		ip := peer
		if isTrusted(trusted, peer) {
			if fwd := forwardedIP(c); fwd != "" {
				ip = fwd
			}
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(RealIPKey, ip)
		c.Next()
	}
}

func peerIP(c *gin.Context) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(c.Request.RemoteAddr)
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return ""
}

func forwardedIP(c *gin.Context) string {
	// Cloudflare first
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

func isTrusted(trusted []*net.IPNet, ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}
