package emit

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/generator"
	"github.com/specialistvlad/fsgen/internal/logrecord"
)

// DateLayout formats the build date in the header and in sysinfo.
const DateLayout = "2006-01-02 15:04 MST"

var tmpl = template.Must(template.New("module").Parse(moduleTemplate))

// Info is the metadata written into the module header and sysinfo string.
type Info struct {
	FileName         string
	GeneratorVersion string
	Name             string
	Version          string
	Board            string
	MCU              string
	User             string
	Date             time.Time
}

type nodeView struct {
	Index      int
	Next       int
	NameSymbol string
	Begin      int
	End        int
	Len        int
	Parent     int
	Callback   string
}

type stringView struct {
	Symbol  string
	Literal string
}

type moduleView struct {
	Info Info
	Date string

	SysName    string
	SysVersion string
	SysUser    string
	SysBoard   string
	SysMCU     string

	Callbacks     []string
	Counters      []annotation.Declaration
	Parameters    []annotation.Declaration
	Strings       []stringView
	Nodes         []nodeView
	CounterList   []int
	ParameterList []int
	Logs          []*logrecord.Record
}

// Render writes the C module for a to w.
func Render(w io.Writer, a *generator.Artifact, info Info) error {
	date := info.Date.Format(DateLayout)
	v := moduleView{
		Info:          info,
		Date:          date,
		SysName:       escape(info.Name),
		SysVersion:    escape(info.Version),
		SysUser:       escape(info.User),
		SysBoard:      escape(info.Board),
		SysMCU:        escape(info.MCU),
		Callbacks:     a.Callbacks(),
		Counters:      a.Counters(),
		Parameters:    a.Parameters(),
		CounterList:   a.XRef.Counters,
		ParameterList: a.XRef.Parameters,
		Logs:          a.Logs,
	}

	for _, e := range a.Nodes.Strings.Entries() {
		v.Strings = append(v.Strings, stringView{Symbol: e.Symbol, Literal: `"` + escape(e.Value) + `"`})
	}
	for i := range a.Nodes.Records {
		rec := &a.Nodes.Records[i]
		n := nodeView{
			Index:      rec.Index,
			Next:       rec.Next,
			NameSymbol: a.Nodes.Strings.Entry(rec.NameRef).Symbol,
			Parent:     rec.Parent,
			Callback:   "NULL",
		}
		if rec.IsLeaf() {
			n.Callback = rec.Callback
		} else {
			// The runtime names the chain head "begin" and the lower bound
			// "end".
			n.Begin = rec.ChildrenTail
			n.End = rec.ChildrenLower
			n.Len = rec.ChildrenCount
		}
		v.Nodes = append(v.Nodes, n)
	}

	if err := tmpl.Execute(w, v); err != nil {
		return errors.Wrap(err, "rendering module")
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(a *generator.Artifact, info Info) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, a, info); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// escape makes s safe inside a C string literal.
func escape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, "\\%03o", c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

