package fstree

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
	"github.com/specialistvlad/fsgen/internal/fspath"
)

const (
	// RootName is the name of the synthetic root node.
	RootName = "__slash"
	// RootString is the string the root's name is emitted as.
	RootString = "/"
)

// ErrConflict marks declarations that cannot coexist in one tree.
var ErrConflict = errors.New("conflicting declaration")

// Node is a PathTree node. A node is either internal (children, no
// callback) or a leaf (callback, no children).
type Node struct {
	Name     string
	Callback string
	// Pos is the site of the declaration that created the node.
	Pos annotation.Pos

	leaf     bool
	children []*Node
	index    map[string]int
}

func newInternal(name string, pos annotation.Pos) *Node {
	return &Node{Name: name, Pos: pos, index: make(map[string]int)}
}

func newLeaf(name, callback string, pos annotation.Pos) *Node {
	return &Node{Name: name, Callback: callback, Pos: pos, leaf: true}
}

// IsLeaf reports whether the node carries a callback.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Children returns the immediate children in first-declaration order.
func (n *Node) Children() []*Node {
	return n.children
}

// Child looks up an immediate child by name.
func (n *Node) Child(name string) (*Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

func (n *Node) add(child *Node) {
	n.index[child.Name] = len(n.children)
	n.children = append(n.children, child)
}

// Tree is the hierarchical form of all filesystem declarations.
type Tree struct {
	Root *Node
}

// NewTree creates a tree holding only the root.
func NewTree() *Tree {
	return &Tree{Root: newInternal(RootName, annotation.Pos{})}
}

// Insert adds the leaf described by decl, creating missing interior nodes.
func (t *Tree) Insert(decl annotation.Declaration) error {
	if decl.Path.Len() == 0 {
		return errors.Mark(errors.Newf("%s: %s declared with an empty path", decl.Pos, decl.Kind),
			annotation.ErrMalformed)
	}
	if decl.Callback == "" {
		return errors.Mark(errors.Newf("%s: %s %s declared without a callback", decl.Pos, decl.Kind, decl.Path),
			annotation.ErrMalformed)
	}

	segments := decl.Path.Dir().Segments
	parent := t.Root
	for depth, name := range segments {
		child, ok := parent.Child(name)
		if !ok {
			child = newInternal(name, decl.Pos)
			parent.add(child)
		} else if child.IsLeaf() {
			return errors.Mark(errors.Newf(
				"%s: %s %s uses %s as a directory, but it is a leaf declared at %s",
				decl.Pos, decl.Kind, decl.Path, fspath.New(segments[:depth+1]...), child.Pos,
			), ErrConflict)
		}
		parent = child
	}

	name := decl.Path.Base()
	existing, ok := parent.Child(name)
	if !ok {
		parent.add(newLeaf(name, decl.Callback, decl.Pos))
		return nil
	}
	if !existing.IsLeaf() {
		return errors.Mark(errors.Newf(
			"%s: %s %s declares a leaf, but it is a directory created at %s",
			decl.Pos, decl.Kind, decl.Path, existing.Pos,
		), ErrConflict)
	}
	if existing.Callback != decl.Callback {
		return errors.Mark(errors.Newf(
			"%s: %s %s has callback %s, but it was declared with callback %s at %s",
			decl.Pos, decl.Kind, decl.Path, decl.Callback, existing.Callback, existing.Pos,
		), ErrConflict)
	}
	return nil
}

// Build inserts all declarations, in order, into a new tree.
func Build(ctx context.Context, decls []annotation.Declaration) (*Tree, error) {
	t := NewTree()
	for _, decl := range decls {
		if err := t.Insert(decl); err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Debug("Path tree built.", "declarations", len(decls))
	return t, nil
}
