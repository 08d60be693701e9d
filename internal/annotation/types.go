package annotation

import (
	"fmt"

	"github.com/specialistvlad/fsgen/internal/fspath"
)

// Callback prefixes for the leaves generated by counter and parameter
// declarations. The runtime provides the matching command implementations.
const (
	CounterCallbackPrefix   = "fs_counter_cmd_"
	ParameterCallbackPrefix = "fs_parameter_cmd_"
)

// Pos is a declaration site.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Kind identifies a filesystem declaration form.
type Kind int

const (
	KindCommand Kind = iota
	KindCounter
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCounter:
		return "counter"
	case KindParameter:
		return "parameter"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Declaration is one filesystem leaf declaration. Every kind produces a leaf
// with a callback; counters and parameters additionally name the symbol that
// holds their value.
type Declaration struct {
	Kind     Kind
	Path     fspath.Path
	Callback string
	// Name is the counter or parameter symbol. Empty for commands.
	Name string
	// Type is the C type of a parameter. Empty for other kinds.
	Type string
	Pos  Pos
}

// LogPoint is one log point declaration.
type LogPoint struct {
	Name   string
	Format string
	Pos    Pos
}

// Declarations holds everything found in a set of sources, in scan order.
type Declarations struct {
	Nodes     []Declaration
	LogPoints []LogPoint
}

// Commands returns the command declarations in scan order.
func (d *Declarations) Commands() []Declaration {
	return d.ofKind(KindCommand)
}

// Counters returns the counter declarations in scan order.
func (d *Declarations) Counters() []Declaration {
	return d.ofKind(KindCounter)
}

// Parameters returns the parameter declarations in scan order.
func (d *Declarations) Parameters() []Declaration {
	return d.ofKind(KindParameter)
}

func (d *Declarations) ofKind(kind Kind) []Declaration {
	var out []Declaration
	for _, decl := range d.Nodes {
		if decl.Kind == kind {
			out = append(out, decl)
		}
	}
	return out
}

// Merge appends other's declarations after d's own.
func (d *Declarations) Merge(other *Declarations) {
	d.Nodes = append(d.Nodes, other.Nodes...)
	d.LogPoints = append(d.LogPoints, other.LogPoints...)
}
