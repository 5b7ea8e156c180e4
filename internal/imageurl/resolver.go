// internal/imageurl/resolver.go
package imageurl

import (
	"strings"
)

const imagesPrefix = "/images"

const gitHubPagesHost = "github.io"

// HostContext describes where the storefront is being viewed. An empty
// Hostname means there is no browsing context (pre-render / static export).
type HostContext struct {
	Hostname string `json:"hostname"`
	Pathname string `json:"pathname"`
}

// ServerContext is the host context used while pre-rendering.
func ServerContext() HostContext {
	return HostContext{}
}

func (h HostContext) IsServer() bool {
	return h.Hostname == ""
}

// Environment is the hosting capability descriptor for a host context.
// Apart from IsServer, exactly one flag is set; IsServer clears the others.
type Environment struct {
	IsServer       bool   `json:"is_server"`
	IsGitHubPages  bool   `json:"is_github_pages"`
	IsLocalhost    bool   `json:"is_localhost"`
	IsCustomDomain bool   `json:"is_custom_domain"`
	Hostname       string `json:"hostname,omitempty"`
}

func DetectEnvironment(host HostContext) Environment {
	if host.IsServer() {
		return Environment{IsServer: true}
	}

	env := Environment{Hostname: host.Hostname}
	switch {
	case isGitHubPages(host.Hostname):
		env.IsGitHubPages = true
	case isLocalhost(host.Hostname):
		env.IsLocalhost = true
	default:
		env.IsCustomDomain = true
	}
	return env
}

// BasePath is the URL prefix the static bundle is served under. Only GitHub
// Pages project sites live below a path segment (the repository name).
func BasePath(host HostContext) string {
	if host.IsServer() || !isGitHubPages(host.Hostname) {
		return ""
	}

	segment := firstSegment(host.Pathname)
	if segment == "" {
		return ""
	}
	return "/" + segment
}

// Resolve maps a logical image path to the absolute URL path of the asset for
// the given host context. It is evaluated on every call since the host context
// may change between navigations.
func Resolve(path string, host HostContext) string {
	return BasePath(host) + imagesPrefix + normalize(path)
}

func ResolveAll(paths []string, host HostContext) []string {
	resolved := make([]string, len(paths))
	for i, path := range paths {
		resolved[i] = Resolve(path, host)
	}
	return resolved
}

func normalize(path string) string {
	return "/" + strings.TrimLeft(path, "/")
}

func firstSegment(pathname string) string {
	for _, segment := range strings.Split(pathname, "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}

func isGitHubPages(hostname string) bool {
	return strings.Contains(strings.ToLower(hostname), gitHubPagesHost)
}

func isLocalhost(hostname string) bool {
	h := strings.ToLower(hostname)
	switch h {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return true
	}
	return strings.HasSuffix(h, ".localhost")
}
