package logrecord

import (
	"context"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
)

// templateCacheSize bounds the number of distinct parsed format strings kept
// by a Generator.
const templateCacheSize = 512

var (
	// ErrUnsupportedSpecifier marks a conversion that would silently consume
	// no record field.
	ErrUnsupportedSpecifier = errors.New("unsupported format specifier")
	// ErrDuplicateName marks two log points that would define the same C
	// symbols.
	ErrDuplicateName = errors.New("duplicate log point name")
)

// Record is the generated description of one log point.
type Record struct {
	// Identity is the position of the log point in scan order.
	Identity int
	Name     string
	// Source is the format string as written in the annotation, C escapes
	// included.
	Source   string
	Pos      annotation.Pos
	Template *Template
	Layout   Layout

	abi ABI
}

// StructName is the C tag of the argument container.
func (r *Record) StructName() string { return r.Name + "_t" }

// WriteFunc is the C name of the capture function.
func (r *Record) WriteFunc() string { return r.Name + "_write" }

// FormatFunc is the C name of the formatting function.
func (r *Record) FormatFunc() string { return r.Name + "_format" }

// Options configure a Generator.
type Options struct {
	ABI ABI
	// Lenient downgrades unsupported specifiers to warnings and keeps them as
	// inert text.
	Lenient bool
}

// Generator builds records for log points.
type Generator struct {
	opts      Options
	templates *lru.Cache[string, *Template]
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.ABI.Validate(); err != nil {
		return nil, err
	}
	templates, err := lru.New[string, *Template](templateCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating template cache")
	}
	return &Generator{opts: opts, templates: templates}, nil
}

// template parses format, reusing the result for repeated format strings.
// Templates are never mutated after parsing, so records may share them.
func (g *Generator) template(format string) *Template {
	if t, ok := g.templates.Get(format); ok {
		return t
	}
	t := ParseFormat(format)
	g.templates.Add(format, t)
	return t
}

// Generate creates one record per log point. Identities are the positions
// in points; equal format strings never merge two log points.
func (g *Generator) Generate(ctx context.Context, points []annotation.LogPoint) ([]*Record, error) {
	logger := ctxlog.FromContext(ctx)

	seen := make(map[string]annotation.Pos, len(points))
	records := make([]*Record, 0, len(points))
	for identity, lp := range points {
		if first, dup := seen[lp.Name]; dup {
			return nil, errors.Mark(errors.Newf("%s: log point %s already declared at %s",
				lp.Pos, lp.Name, first), ErrDuplicateName)
		}
		seen[lp.Name] = lp.Pos

		t := g.template(lp.Format)
		for _, inert := range t.Inert() {
			if !g.opts.Lenient {
				return nil, errors.Mark(errors.Newf(
					"%s: log point %s: specifier %q at offset %d is not one of %%f %%c %%d %%ld %%u %%lu",
					lp.Pos, lp.Name, inert.Text, inert.Offset), ErrUnsupportedSpecifier)
			}
			logger.Warn("Unsupported specifier kept as text; it consumes no argument.",
				"pos", lp.Pos.String(), "log_point", lp.Name, "specifier", inert.Text)
		}

		records = append(records, &Record{
			Identity: identity,
			Name:     lp.Name,
			Source:   lp.Format,
			Pos:      lp.Pos,
			Template: t,
			Layout:   NewLayout(t.Args, g.opts.ABI),
			abi:      g.opts.ABI,
		})
	}

	logger.Debug("Log records generated.", "log_points", len(records))
	return records, nil
}
