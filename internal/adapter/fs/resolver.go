package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scriptscan/internal/port"
)

// Resolver reads script content from disk. Relative identifiers are
// resolved against Root.
type Resolver struct {
	Root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{Root: root}
}

func (r *Resolver) Resolve(id string) (string, error) {
	path := r.Path(id)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", id, port.ErrNotFound)
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file: %w", id, port.ErrNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Path maps an identifier to a file-system path. Backslashes are treated
// as separators on every platform.
func (r *Resolver) Path(id string) string {
	p := filepath.FromSlash(strings.ReplaceAll(id, `\`, "/"))
	if filepath.IsAbs(p) || r.Root == "" {
		return p
	}
	return filepath.Join(r.Root, p)
}
