package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeURL lowercases the scheme and host of an absolute URL and leaves the
// path untouched, since picture paths are often case sensitive.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
