// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultExtensions are the preprocessed source suffixes picked up when an
// input names a directory.
var DefaultExtensions = []string{".i"}

// FindFilesByExtension recursively searches the given root path for all files
// ending with one of the given extensions. WalkDir visits entries in lexical
// order, so the result is stable across runs.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasExtension(d.Name(), extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ExpandInputs turns the command line inputs into the ordered list of files
// to scan. Files are kept where they appear, whatever their extension;
// directories are replaced by their matching files. A file reached twice is
// only scanned the first time.
func ExpandInputs(inputs []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		key := filepath.Clean(p)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", in)
		}
		if !info.IsDir() {
			add(in)
			continue
		}
		files, err := FindFilesByExtension(in, extensions...)
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", in)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
