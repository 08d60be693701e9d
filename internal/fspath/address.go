// internal/fspath/address.go
package fspath

import "strings"

// String serializes the path into its canonical form, e.g. `/fs/status`.
func (p Path) String() string {
	var sb strings.Builder
	for _, segment := range p.Segments {
		sb.WriteString(Separator)
		sb.WriteString(segment)
	}
	return sb.String()
}

// Join builds the canonical string for a parent path string and a child
// segment. An empty parent denotes the root.
func Join(parent, segment string) string {
	return parent + Separator + segment
}
