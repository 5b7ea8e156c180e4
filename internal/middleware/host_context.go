// internal/middleware/host_context.go
package middleware

import (
	"net"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/imageurl"
)

const hostContextKey = "host_context"

// HostContext records where the storefront page making the request is
// hosted, so image URLs can be resolved for that location.
//
// The hostname comes from the Referer, then Origin, then X-Forwarded-Host,
// then Host. The pathname comes from the Referer, then X-Forwarded-Prefix.
func HostContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(hostContextKey, hostContextFromRequest(c))
		c.Next()
	}
}

// GetHostContext returns the host context stored by HostContext, or the
// pre-render context when the middleware did not run.
func GetHostContext(c *gin.Context) imageurl.HostContext {
	if v, ok := c.Get(hostContextKey); ok {
		if host, ok := v.(imageurl.HostContext); ok {
			return host
		}
	}
	return imageurl.ServerContext()
}

func hostContextFromRequest(c *gin.Context) imageurl.HostContext {
	var host imageurl.HostContext

	if referer, err := url.Parse(c.GetHeader("Referer")); err == nil && referer.Hostname() != "" {
		host.Hostname = referer.Hostname()
		host.Pathname = referer.EscapedPath()
	}

	if host.Hostname == "" {
		if origin, err := url.Parse(c.GetHeader("Origin")); err == nil {
			host.Hostname = origin.Hostname()
		}
	}
	if host.Hostname == "" {
		host.Hostname = stripPort(firstValue(c.GetHeader("X-Forwarded-Host")))
	}
	if host.Hostname == "" {
		host.Hostname = stripPort(c.Request.Host)
	}

	if host.Pathname == "" {
		host.Pathname = firstValue(c.GetHeader("X-Forwarded-Prefix"))
	}
	if host.Pathname == "" && host.Hostname != "" {
		host.Pathname = "/"
	}

	host.Hostname = strings.ToLower(host.Hostname)
	return host
}

func firstValue(header string) string {
	return strings.TrimSpace(strings.Split(header, ",")[0])
}

func stripPort(hostport string) string {
	if hostport == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return strings.Trim(hostport, "[]")
}
