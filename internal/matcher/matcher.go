// Package matcher correlates log-derived URLs with known repository names.
//
// A URL references a repository when the repository name appears in the URL
// path on path-segment boundaries, after stripping Gerrit's authenticated
// "/a/" prefix and a trailing ".git". Plain substring matching is deliberately
// avoided: it would attribute "https://host/tools/foo-bar" to a repository
// named "foo".
package matcher

import (
	"net/url"
	"sort"
	"strings"
)

// Partition splits urls into those referencing a known repository name and
// those referencing none. Both slices are sorted, so the result is
// deterministic regardless of map iteration order.
func Partition(urls map[string]struct{}, names []string) (matched, discarded []string) {
	for u := range urls {
		if matchesAny(u, names) {
			matched = append(matched, u)
		} else {
			discarded = append(discarded, u)
		}
	}

	sort.Strings(matched)
	sort.Strings(discarded)
	return matched, discarded
}

func matchesAny(rawURL string, names []string) bool {
	segments := pathSegments(rawURL)
	if len(segments) == 0 {
		return false
	}

	for _, name := range names {
		if containsSegments(segments, strings.Split(name, "/")) {
			return true
		}
	}
	return false
}

// pathSegments normalizes a URL into its path segments.
func pathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return nil
	}

	segments := strings.Split(path, "/")
	if segments[0] == "a" && len(segments) > 1 {
		segments = segments[1:]
	}
	// Clone and info/refs URLs carry the repository name with a ".git" suffix.
	for i, segment := range segments {
		segments[i] = strings.TrimSuffix(segment, ".git")
	}
	return segments
}

func containsSegments(haystack, needle []string) bool {
	if len(needle) == 0 {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
