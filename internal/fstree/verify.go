package fstree

import (
	"github.com/cockroachdb/errors"
)

// SubtreeSizes returns, for every record, the number of records in the
// subtree rooted at it.
func (t *Table) SubtreeSizes() []int {
	sizes := make([]int, len(t.Records))
	// Pre-order puts every child after its parent, so a reverse sweep sees
	// each subtree complete before adding it to its parent.
	for i := len(t.Records) - 1; i >= 0; i-- {
		sizes[i]++
		if p := t.Records[i].Parent; p != NoParent {
			sizes[p] += sizes[i]
		}
	}
	return sizes
}

// Verify checks the structural invariants the runtime relies on:
// the root sits at index 0, every sibling chain enumerates exactly
// ChildrenCount children and ends at NoSibling, and every subtree is a
// contiguous index range with non-overlapping child ranges.
func (t *Table) Verify() error {
	if len(t.Records) == 0 {
		return errors.New("flattened tree has no root")
	}
	if root := t.Records[RootIndex]; root.Parent != NoParent || root.IsLeaf() {
		return errors.New("record 0 is not an internal root")
	}

	sizes := t.SubtreeSizes()
	for i := range t.Records {
		rec := &t.Records[i]
		if rec.Index != i {
			return errors.Newf("record %d carries index %d", i, rec.Index)
		}
		if i != RootIndex && (rec.Parent < 0 || rec.Parent >= i) {
			return errors.Newf("record %d has parent %d outside the preceding range", i, rec.Parent)
		}
		if rec.IsLeaf() {
			if rec.ChildrenCount != 0 || rec.ChildrenTail != 0 || rec.ChildrenLower != 0 {
				return errors.Newf("leaf %d (%s) has a children descriptor", i, rec.Path)
			}
			continue
		}
		if rec.ChildrenLower != i+1 {
			return errors.Newf("record %d has children lower bound %d", i, rec.ChildrenLower)
		}
		if err := t.verifyChildren(i, sizes); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) verifyChildren(index int, sizes []int) error {
	rec := &t.Records[index]
	seen := make(map[int]struct{}, rec.ChildrenCount)

	// The chain runs from the last child backwards, so each child's subtree
	// must end right before the following sibling starts.
	end := index + sizes[index]
	child := rec.ChildrenTail
	for step := 0; step < rec.ChildrenCount; step++ {
		if child <= index || child >= index+sizes[index] {
			return errors.Newf("record %d: child %d outside subtree [%d, %d]",
				index, child, index, index+sizes[index]-1)
		}
		if _, dup := seen[child]; dup {
			return errors.Newf("record %d: sibling chain visits %d twice", index, child)
		}
		seen[child] = struct{}{}
		if t.Records[child].Parent != index {
			return errors.Newf("record %d: chained child %d has parent %d",
				index, child, t.Records[child].Parent)
		}
		if child+sizes[child] != end {
			return errors.Newf("record %d: subtree of child %d is not contiguous with its next sibling",
				index, child)
		}
		end = child
		next := t.Records[child].Next
		if step == rec.ChildrenCount-1 {
			if next != NoSibling {
				return errors.Newf("record %d: sibling chain does not terminate after %d children",
					index, rec.ChildrenCount)
			}
			if child != rec.ChildrenLower {
				return errors.Newf("record %d: first child is %d, want %d", index, child, rec.ChildrenLower)
			}
		}
		child = next
	}
	if rec.ChildrenCount == 0 && sizes[index] != 1 {
		return errors.Newf("record %d has no children but a subtree of %d records", index, sizes[index])
	}
	if rec.ChildrenCount > 0 && end != index+1 {
		return errors.Newf("record %d: children do not cover its subtree", index)
	}
	return nil
}
