// Package generator runs one generation pass: it scans the inputs, builds and
// flattens the filesystem tree, resolves counters and parameters, and
// generates the log records. The resulting Artifact is the complete,
// format-agnostic model of the generated module; rendering it is left to
// the emit package.
package generator
