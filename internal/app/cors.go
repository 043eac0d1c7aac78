package app

import (
	"net/url"
	"strings"
)

// extractOriginHost returns the lower-cased host[:port] of an origin, or the
// input itself when it does not parse as a URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Host == "" {
		return origin
	}
	return strings.ToLower(u.Host)
}

// matchOriginPattern accepts an exact host, a "*.domain" suffix or a
// "host:*" any-port pattern.
func matchOriginPattern(pattern, host string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
