package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP lets loopback and RFC 1918 clients skip the limiter.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ClientIP(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}

// AllowCIDRs lets clients inside any of the given networks skip the limiter.
// Entries that do not parse are ignored.
func AllowCIDRs(cidrs ...string) AllowFunc {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, s := range cidrs {
		if _, n, err := net.ParseCIDR(strings.TrimSpace(s)); err == nil {
			nets = append(nets, n)
		}
	}
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ClientIP(c))
		if ip == nil {
			return false
		}
		for _, n := range nets {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}
}

// AllowAny passes when at least one of fns does.
func AllowAny(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}
