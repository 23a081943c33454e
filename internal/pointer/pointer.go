// Package pointer handles the slash-delimited paths used to address values in
// a document: splitting, resolution against a context, and overlap checks.
package pointer

import (
	"strconv"
	"strings"
)

// Root is the absolute path of the whole document.
const Root = "/"

// IsAbsolute reports whether p is rooted at the document root.
func IsAbsolute(p string) bool { return strings.HasPrefix(p, "/") }

// Resolve turns p into an absolute path. Absolute paths are returned as is.
// Relative paths need a base (the absolute path of a context); an empty
// relative path addresses the base itself.
func Resolve(p, base string, hasBase bool) (string, bool) {
	if IsAbsolute(p) {
		return Clean(p), true
	}
	if !hasBase {
		return "", false
	}
	if p == "" {
		return Clean(base), true
	}
	if base == Root || base == "" {
		return Clean("/" + p), true
	}
	return Clean(base + "/" + p), true
}

// Clean drops a trailing slash from non-root paths.
func Clean(p string) string {
	if p == "" || p == Root {
		return Root
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// Split returns the segments of an absolute path. The root yields none.
func Split(p string) []string {
	p = Clean(p)
	if p == Root {
		return nil
	}
	// naive split on '/', ignoring the first empty part due to leading '/'
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// Join builds an absolute path from segments.
func Join(parts ...string) string {
	if len(parts) == 0 {
		return Root
	}
	return "/" + strings.Join(parts, "/")
}

// Child appends one segment to an absolute path.
func Child(p, seg string) string {
	p = Clean(p)
	if p == Root {
		return "/" + seg
	}
	return p + "/" + seg
}

// Index parses an array index segment. Negative and non-numeric segments are
// rejected.
func Index(seg string) (int, bool) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Overlaps reports whether one absolute path is an ancestor of, equal to, or
// a descendant of the other. A change at either one affects the other.
func Overlaps(a, b string) bool {
	a, b = Clean(a), Clean(b)
	if a == b || a == Root || b == Root {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}
