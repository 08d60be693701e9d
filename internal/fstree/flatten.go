package fstree

import (
	"context"

	"github.com/specialistvlad/fsgen/internal/ctxlog"
	"github.com/specialistvlad/fsgen/internal/fspath"
)

const (
	// RootIndex is the index of the root record.
	RootIndex = 0
	// NoParent is the parent of the root.
	NoParent = -1
	// NoSibling terminates a sibling chain. The root is never a sibling.
	NoSibling = RootIndex
)

// Record is one node of the flattened tree.
type Record struct {
	Index   int
	Name    string
	NameRef int
	Parent  int
	// Next is the previous sibling in declaration order, or NoSibling.
	Next int

	// Internal nodes only.
	ChildrenLower int
	ChildrenTail  int
	ChildrenCount int

	// Leaves only.
	Callback string

	// Path is the full path the record was flattened from; "/" for the root.
	Path string
}

// IsLeaf reports whether the record carries a callback.
func (r *Record) IsLeaf() bool {
	return r.Callback != ""
}

// Table is a flattened tree: the records in index order plus the string
// table their NameRef fields point into.
type Table struct {
	Records []Record
	Strings *StringTable

	byPath map[string]int
}

// Flatten assigns pre-order indices to every node of t.
func Flatten(ctx context.Context, t *Tree) *Table {
	f := &flattener{strings: NewStringTable()}
	f.visit(t.Root, NoParent, NoSibling, "")

	ctxlog.FromContext(ctx).Debug("Tree flattened.",
		"records", len(f.records), "strings", f.strings.Len())
	byPath := make(map[string]int, len(f.records))
	for i := range f.records {
		byPath[f.records[i].Path] = i
	}
	return &Table{Records: f.records, Strings: f.strings, byPath: byPath}
}

// flattener owns the output of a single Flatten call. The next free index is
// always len(records).
type flattener struct {
	records []Record
	strings *StringTable
}

// visit flattens the subtree rooted at n and returns n's index. next is the
// index of n's previous sibling.
func (f *flattener) visit(n *Node, parent, next int, parentPath string) int {
	index := len(f.records)
	f.records = append(f.records, Record{})

	path := RootString
	if parent != NoParent {
		path = fspath.Join(parentPath, n.Name)
	}

	rec := Record{
		Index:   index,
		Name:    n.Name,
		NameRef: f.strings.Intern(nodeString(n.Name)),
		Parent:  parent,
		Next:    next,
		Path:    path,
	}

	if n.IsLeaf() {
		rec.Callback = n.Callback
	} else {
		rec.ChildrenLower = index + 1
		childPath := path
		if parent == NoParent {
			childPath = ""
		}
		prev := NoSibling
		for _, child := range n.Children() {
			prev = f.visit(child, index, prev, childPath)
		}
		rec.ChildrenTail = prev
		rec.ChildrenCount = len(n.Children())
	}

	f.records[index] = rec
	return index
}

// ChildrenOf returns the indices of the immediate children of the record at
// index, in sibling-chain order (last declared first).
func (t *Table) ChildrenOf(index int) []int {
	rec := &t.Records[index]
	if rec.IsLeaf() || rec.ChildrenCount == 0 {
		return nil
	}
	children := make([]int, 0, rec.ChildrenCount)
	child := rec.ChildrenTail
	for i := 0; i < rec.ChildrenCount; i++ {
		children = append(children, child)
		child = t.Records[child].Next
	}
	return children
}

// FullPath rebuilds the path of the record at index by following parent
// links up to the root.
func (t *Table) FullPath(index int) string {
	if index == RootIndex {
		return RootString
	}
	var names []string
	for i := index; i != RootIndex; i = t.Records[i].Parent {
		names = append(names, t.Records[i].Name)
	}
	path := ""
	for i := len(names) - 1; i >= 0; i-- {
		path = fspath.Join(path, names[i])
	}
	return path
}

// Lookup finds the record whose full path equals path.
func (t *Table) Lookup(path string) (int, bool) {
	index, ok := t.byPath[path]
	return index, ok
}
