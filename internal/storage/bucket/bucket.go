// Package bucket stores blog images in S3-compatible object storage.
package bucket

import (
	"net/url"
	"strings"
)

// publicURL joins base, bucket and key into a path-style object URL.
func publicURL(base, bucket, key string) string {
	base = strings.TrimRight(base, "/")

	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return base + "/" + url.PathEscape(bucket) + "/" + strings.Join(parts, "/")
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
