package logrecord

import "fmt"

// Field is one member of an argument container.
type Field struct {
	Name   string
	Type   ArgType
	Offset int
	Size   int
}

// Layout is the C struct layout of an argument container: members in
// specifier order, each naturally aligned, total size padded to the
// strictest member alignment.
type Layout struct {
	Fields []Field
	Size   int
	Align  int
}

// NewLayout lays out one field per argument type.
func NewLayout(args []ArgType, abi ABI) Layout {
	l := Layout{Align: 1}
	offset := 0
	for i, typ := range args {
		size := abi.Size(typ)
		offset = alignUp(offset, size)
		l.Fields = append(l.Fields, Field{
			Name:   fmt.Sprintf("arg%d", i),
			Type:   typ,
			Offset: offset,
			Size:   size,
		})
		offset += size
		l.Align = max(l.Align, size)
	}
	l.Size = alignUp(offset, l.Align)
	return l
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
