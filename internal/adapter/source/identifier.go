package source

import "strings"

// NormalizeIdentifier strips a query string ("?v=2") from path.
func NormalizeIdentifier(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// LooksLikeFileIdentifier reports whether path plausibly names a file: its
// last dot must come after its last separator, or be the first character.
// Both '/' and '\' count as separators.
func LooksLikeFileIdentifier(path string) bool {
	dot := strings.LastIndexByte(path, '.')
	sep := strings.LastIndexAny(path, `/\`)
	return dot == 0 || dot > sep
}
