package middleware

import "strings"

// PublicPaths is the allow-list of paths served without a token. Each entry
// covers itself and everything below it on a segment boundary: "/health"
// matches "/health" and "/health/ready" but not "/healthcheck".
type PublicPaths []string

// DefaultPublicPaths mirrors the login, registration, probe, docs and static
// asset endpoints.
var DefaultPublicPaths = PublicPaths{
	"/auth/",
	"/health",
	"/metrics",
	"/swagger/",
	"/css/",
	"/js/",
	"/images/",
	"/favicon.ico",
}

// Match reports whether path falls under one of the entries.
func (p PublicPaths) Match(path string) bool {
	for _, entry := range p {
		if entry == "" {
			continue
		}
		base := strings.TrimSuffix(entry, "/")
		if path == base || strings.HasPrefix(path, base+"/") {
			return true
		}
	}
	return false
}
