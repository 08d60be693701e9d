package fstree

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
)

// ListEnd terminates the counter and parameter index lists.
const ListEnd = -1

// ErrUnresolved marks a counter or parameter whose path names no node.
var ErrUnresolved = errors.New("unresolved cross-reference")

// CrossReference holds the record indices of all counters and parameters in
// declaration order. Both lists end with ListEnd.
type CrossReference struct {
	Counters   []int
	Parameters []int
}

// Resolve maps every counter and parameter declaration to the record whose
// reconstructed path equals the declared one.
func Resolve(ctx context.Context, t *Table, counters, parameters []annotation.Declaration) (*CrossReference, error) {
	resolve := func(decls []annotation.Declaration) ([]int, error) {
		list := make([]int, 0, len(decls)+1)
		for _, decl := range decls {
			index, ok := t.Lookup(decl.Path.String())
			if !ok {
				return nil, errors.Mark(errors.Newf("%s: %s %s (%s) does not resolve to any node",
					decl.Pos, decl.Kind, decl.Name, decl.Path), ErrUnresolved)
			}
			list = append(list, index)
		}
		return append(list, ListEnd), nil
	}

	counterList, err := resolve(counters)
	if err != nil {
		return nil, err
	}
	parameterList, err := resolve(parameters)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Cross-references resolved.",
		"counters", len(counters), "parameters", len(parameters))
	return &CrossReference{Counters: counterList, Parameters: parameterList}, nil
}
