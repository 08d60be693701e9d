// internal/fspath/doc.go

/*
Package fspath provides a structured representation for virtual filesystem
paths as they appear in filesystem declarations.

The canonical format is an absolute, slash-separated sequence of segments,
e.g., `/kernel/sys/uptime`. The root itself is never declared directly, so a
valid path always has at least one segment.

This package centralizes parsing and formatting so that the scanner, the tree
builder and the cross-referencer agree on what a path is.
*/
package fspath
