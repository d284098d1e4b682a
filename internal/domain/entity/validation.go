package entity

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

const maxURLLength = 2048

// ValidateFeedURL checks an absolute feed URL from the source catalogue:
// http(s), a host, bounded length, and no loopback, private or link-local
// address literal. Names are not resolved; the fetch path checks resolved
// addresses at request time.
func ValidateFeedURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("malformed URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return &ValidationError{Field: "url", Message: "url cannot point to private network"}
	}
	if addr, err := netip.ParseAddr(host); err == nil && isInternalAddr(addr) {
		return &ValidationError{Field: "url", Message: "url cannot point to private network"}
	}
	return nil
}

func isInternalAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsUnspecified() || addr.IsLinkLocalMulticast()
}
