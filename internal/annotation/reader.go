package annotation

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds the number of input files open at once.
const maxConcurrentReads = 8

// Source is the content of one input file.
type Source struct {
	Path    string
	Content []byte
}

// ReadSources reads all paths concurrently. The returned slice is in the
// same order as paths regardless of completion order.
func ReadSources(ctx context.Context, paths []string) ([]Source, error) {
	sources := make([]Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading input %s", path)
			}
			sources[i] = Source{Path: path, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// ScanSources scans every source and merges the results in source order.
func ScanSources(ctx context.Context, sources []Source) (*Declarations, error) {
	logger := ctxlog.FromContext(ctx)

	all := &Declarations{}
	for _, src := range sources {
		decls, err := Scan(src)
		if err != nil {
			return nil, err
		}
		logger.Debug("Scanned input.", "file", src.Path,
			"nodes", len(decls.Nodes), "log_points", len(decls.LogPoints))
		all.Merge(decls)
	}
	return all, nil
}

// ScanFiles reads and scans the given files.
func ScanFiles(ctx context.Context, paths []string) (*Declarations, error) {
	sources, err := ReadSources(ctx, paths)
	if err != nil {
		return nil, err
	}
	return ScanSources(ctx, sources)
}
