/*
Package fstree turns filesystem declarations into the flat node array read by
the runtime's virtual filesystem.

Declared paths are first inserted into a PathTree whose children keep their
first-declaration order. Flatten then assigns indices in depth-first
pre-order and emits one Record per node, so every subtree occupies a
contiguous index range starting at its own root.

Children are not stored per node. An internal record keeps the index of its
last child (ChildrenTail) and a child count, and every record links to its
previous sibling through Next. Enumerating the children of a node is a walk
of ChildrenCount steps along Next starting at ChildrenTail:

	fs (lower=2 tail=3 count=2)
	├── status  idx=2 next=0
	└── reboot  idx=3 next=2

Index 0 is always the root, which can never be anybody's sibling, so Next=0
doubles as the "no previous sibling" marker.

Node names are interned into a StringTable, and counters and parameters are
resolved to record indices by Resolve.
*/
package fstree
