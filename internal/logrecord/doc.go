// Package logrecord turns log point format strings into binary argument
// records.
//
// Each log point's format string is parsed into a Template: literal text and
// one argument slot per recognized specifier. Exactly %f, %c, %d, %ld, %u and
// %lu are recognized. The argument types define a C struct layout (Layout)
// whose raw bytes are what the target hands to its log transport.
//
// A Record ties a log point's identity to its template and layout. Records
// can Capture Go values into raw bytes and Format raw bytes back into text,
// which is what a DispatchTable uses to render an arbitrary captured record
// from nothing but its identity and bytes.
package logrecord
