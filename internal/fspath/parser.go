// internal/fspath/parser.go
package fspath

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// isValidSegment rejects names that are legal strings but meaningless as
// filesystem entries.
func isValidSegment(name string) error {
	if name == "" {
		return errors.New("path contains empty segment")
	}
	if name == "." || name == ".." {
		return errors.Newf("invalid segment name: %q", name)
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' {
			return errors.Newf("invalid character %q in segment %q", r, name)
		}
	}
	return nil
}

// Parse creates a Path by parsing its canonical string representation.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, errors.New("path cannot be empty")
	}
	if !strings.HasPrefix(raw, Separator) {
		return Path{}, errors.Newf("path %q is not absolute", raw)
	}

	var p Path
	for _, segment := range strings.Split(raw[len(Separator):], Separator) {
		if err := isValidSegment(segment); err != nil {
			return Path{}, errors.Wrapf(err, "path %q", raw)
		}
		p.Segments = append(p.Segments, segment)
	}
	return p, nil
}

// ParseLiterals concatenates a run of adjacent C string literal bodies, as in
// `"/kernel/" "sys"`, and parses the result.
func ParseLiterals(parts ...string) (Path, error) {
	return Parse(strings.Join(parts, ""))
}
