package generator

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
	"github.com/specialistvlad/fsgen/internal/fstree"
	"github.com/specialistvlad/fsgen/internal/logrecord"
)

// Options control a generation pass.
type Options struct {
	ABI           logrecord.ABI
	LenientFormat bool
}

// Artifact is everything the generated module is rendered from.
type Artifact struct {
	Declarations *annotation.Declarations
	Nodes        *fstree.Table
	XRef         *fstree.CrossReference
	Logs         []*logrecord.Record
	Dispatch     logrecord.DispatchTable
}

// Callbacks returns every command callback once, in first-declaration order.
func (a *Artifact) Callbacks() []string {
	return unique(a.Declarations.Nodes, func(d annotation.Declaration) string { return d.Callback })
}

// Counters returns each counter declaration once, keyed by counter name.
func (a *Artifact) Counters() []annotation.Declaration {
	return uniqueDecls(a.Declarations.Counters())
}

// Parameters returns each parameter declaration once, keyed by parameter
// name.
func (a *Artifact) Parameters() []annotation.Declaration {
	return uniqueDecls(a.Declarations.Parameters())
}

// Generate builds the artifact from already scanned declarations. Any error
// aborts the whole pass; no partial artifact is returned.
func Generate(ctx context.Context, decls *annotation.Declarations, opts Options) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	tree, err := fstree.Build(ctx, decls.Nodes)
	if err != nil {
		return nil, err
	}
	table := fstree.Flatten(ctx, tree)
	if err := table.Verify(); err != nil {
		return nil, errors.NewAssertionErrorWithWrappedErrf(err, "flattened tree is inconsistent")
	}

	xref, err := fstree.Resolve(ctx, table, decls.Counters(), decls.Parameters())
	if err != nil {
		return nil, err
	}

	gen, err := logrecord.NewGenerator(logrecord.Options{ABI: opts.ABI, Lenient: opts.LenientFormat})
	if err != nil {
		return nil, err
	}
	logs, err := gen.Generate(ctx, decls.LogPoints)
	if err != nil {
		return nil, err
	}

	logger.Info("Generation model built.",
		"commands", len(decls.Commands()),
		"nodes", len(table.Records),
		"strings", table.Strings.Len(),
		"counters", len(xref.Counters)-1,
		"parameters", len(xref.Parameters)-1,
		"log_points", len(logs),
	)
	return &Artifact{
		Declarations: decls,
		Nodes:        table,
		XRef:         xref,
		Logs:         logs,
		Dispatch:     logrecord.NewDispatchTable(logs),
	}, nil
}

// GenerateFiles scans the given inputs in order and generates the artifact.
func GenerateFiles(ctx context.Context, paths []string, opts Options) (*Artifact, error) {
	decls, err := annotation.ScanFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, decls, opts)
}

func unique[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func uniqueDecls(decls []annotation.Declaration) []annotation.Declaration {
	seen := make(map[string]struct{}, len(decls))
	var out []annotation.Declaration
	for _, d := range decls {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		out = append(out, d)
	}
	return out
}
