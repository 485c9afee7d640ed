// Package icon resolves notification icon references to files on disk.
package icon

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no candidate file exists for an icon name.
var ErrNotFound = errors.New("icon not found")

// extensions tried for each search-path candidate, in order.
var extensions = []string{".svg", ".png"}

// Resolver locates icon files by name using a colon-separated search path,
// following the usual daemon convention: absolute and home-relative paths are
// used directly, anything else is probed against each search directory with
// .svg preferred over .png.
type Resolver struct {
	searchPath string
}

// NewResolver creates a Resolver over a colon-separated list of directories.
func NewResolver(searchPath string) *Resolver {
	return &Resolver{searchPath: searchPath}
}

// Resolve returns the path of the first existing candidate for ref.
// ref may be a plain name, an absolute or ~-relative path, or a file:// URI.
func (r *Resolver) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}

	if strings.HasPrefix(ref, "file://") {
		if u, err := url.Parse(ref); err == nil && u.Path != "" {
			ref = u.Path
		}
	}

	if strings.HasPrefix(ref, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			ref = filepath.Join(home, strings.TrimPrefix(ref, "~"))
		}
	}

	// An absolute path miss still falls through to the search path below.
	if filepath.IsAbs(ref) && isReadableFile(ref) {
		return ref, nil
	}

	for _, dir := range strings.Split(r.searchPath, ":") {
		if dir == "" {
			continue
		}
		for _, ext := range extensions {
			candidate := filepath.Join(dir, ref+ext)
			if isReadableFile(candidate) {
				return candidate, nil
			}
		}
	}

	return "", ErrNotFound
}

func isReadableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
