package ratelimit

import (
	"strings"
)

// healthEndpoint is the unlimited health check route.
var healthEndpoint = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
//
// A config path is a route pattern: a "{name}" segment matches any single
// non-empty path segment, so "/users/{id}/assistant" covers every user. A
// pattern ending in "/" matches any path under it.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthEndpoint.Path && method == healthEndpoint.Method {
		return &healthEndpoint
	}

	// Exact match first, so literal routes win over patterns
	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Path == path {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchPattern(config.Path, path) {
			return config
		}
	}

	return nil
}

// matchPattern reports whether path matches the route pattern.
func matchPattern(pattern, path string) bool {
	prefix := strings.HasSuffix(pattern, "/")
	patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	if prefix {
		if len(pathSegs) <= len(patternSegs) {
			return false
		}
	} else if len(pathSegs) != len(patternSegs) {
		return false
	}

	for i, seg := range patternSegs {
		if isParam(seg) {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func isParam(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}
