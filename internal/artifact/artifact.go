// Package artifact writes generated files to disk. A file whose content is
// unchanged is left untouched so that build systems keyed on modification
// time do not rebuild.
package artifact

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
)

// ErrStale marks a check run that found the file on disk out of date.
var ErrStale = errors.New("generated file is stale")

// Result describes what Write did.
type Result struct {
	Path    string
	Digest  uint64
	Changed bool
}

// Write stores content at path unless the file already holds the same
// content, judged by length and xxhash digest. With check set nothing is written; a differing file yields an
// error marked ErrStale that carries a unified diff.
func Write(ctx context.Context, path string, content []byte, check bool) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	res := Result{Path: path, Digest: xxhash.Sum64(content)}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(existing) == len(content) && xxhash.Sum64(existing) == res.Digest {
			logger.Info("Generated file is up to date.")
			return res, nil
		}
	case errors.Is(err, os.ErrNotExist):
		existing = nil
	default:
		return res, errors.Wrapf(err, "reading %s", path)
	}

	res.Changed = true
	if check {
		diff, derr := Diff(path, existing, content)
		if derr != nil {
			return res, derr
		}
		return res, errors.Mark(errors.Newf("%s is out of date:\n%s", path, diff), ErrStale)
	}

	if err := writeAtomic(path, content); err != nil {
		return res, err
	}
	logger.Info("Generated file written.", "bytes", len(content), "digest", res.Digest)
	return res, nil
}

// Diff returns a unified diff from old to updated.
func Diff(path string, old, updated []byte) (string, error) {
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(updated)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, "diffing generated file")
	}
	return d, nil
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "setting mode on %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming into %s", path)
	}
	return nil
}
