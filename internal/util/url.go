// url.go — URL helpers: query string pairs and origin extraction.
package util

import (
	"net/url"
	"strings"
)

// NameValue is a single query parameter.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// QueryPairs extracts query parameters from a URL in the order they appear.
// Returns an empty, non-nil slice if the URL has no query or cannot be parsed.
func QueryPairs(rawURL string) []NameValue {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return make([]NameValue, 0)
	}
	parts := strings.Split(parsed.RawQuery, "&")
	result := make([]NameValue, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		result = append(result, NameValue{Name: name, Value: value})
	}
	return result
}

// FormatQuery renders pairs as name=value joined by "&".
func FormatQuery(pairs []NameValue) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Name+"="+p.Value)
	}
	return strings.Join(parts, "&")
}

// ExtractOrigin extracts the origin (scheme://host[:port]) from a URL.
// Returns empty string for data: URLs and malformed URLs.
func ExtractOrigin(rawURL string) string {
	if strings.HasPrefix(rawURL, "data:") {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
