package utils

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// TrimBaseURL strips surrounding space and trailing slashes so endpoints
// compare and join consistently.
func TrimBaseURL(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// ExtractHost extracts the host from a URL
func ExtractHost(rawURL string) string {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
