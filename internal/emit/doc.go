// Package emit renders a generator.Artifact as the C module linked into the
// target. The output layout (struct fs_node_t initializers, list sentinels,
// log function signatures) is fixed by the runtime and must not drift.
package emit
