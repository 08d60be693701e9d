// internal/fspath/types.go
package fspath

// Separator splits a path into its segments.
const Separator = "/"

// Path is the structured representation of a declared filesystem path.
type Path struct {
	Segments []string
}

// New creates a path from already validated segments.
func New(segments ...string) Path {
	return Path{Segments: append([]string(nil), segments...)}
}

// Len returns the number of segments in the path.
func (p Path) Len() int {
	return len(p.Segments)
}

// Base returns the last segment of the path, or "" for an empty path.
func (p Path) Base() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Dir returns the path without its last segment.
func (p Path) Dir() Path {
	if len(p.Segments) == 0 {
		return Path{}
	}
	return Path{Segments: p.Segments[:len(p.Segments)-1]}
}
