package port

import "errors"

// ErrNotFound is returned when an identifier does not resolve to readable content.
var ErrNotFound = errors.New("source not found")

// ContentResolver turns a source identifier into its full text.
type ContentResolver interface {
	// Resolve returns the content behind id. Implementations wrap ErrNotFound
	// when id does not denote reachable content.
	Resolve(id string) (string, error)
}
