package logrecord

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Formatter renders a raw argument container as text.
type Formatter interface {
	Format(w io.Writer, raw []byte) error
}

var _ Formatter = (*Record)(nil)

// Decode reads the field values out of raw container bytes. Signed fields
// decode to int64, unsigned fields to uint64 and doubles to float64.
func (r *Record) Decode(raw []byte) ([]any, error) {
	if len(raw) != r.Layout.Size {
		return nil, errors.Newf("log point %s: record is %d bytes, want %d", r.Name, len(raw), r.Layout.Size)
	}
	values := make([]any, len(r.Layout.Fields))
	for i, f := range r.Layout.Fields {
		src := raw[f.Offset : f.Offset+f.Size]
		var u uint64
		if f.Size == 8 {
			u = r.abi.ByteOrder.Uint64(src)
		} else {
			u = uint64(r.abi.ByteOrder.Uint32(src))
		}
		switch {
		case f.Type == Double:
			values[i] = math.Float64frombits(u)
		case f.Type.Signed() && f.Size == 4:
			values[i] = int64(int32(uint32(u)))
		case f.Type.Signed():
			values[i] = int64(u)
		default:
			values[i] = u
		}
	}
	return values, nil
}

// Format writes the format string with every recognized specifier replaced
// by its field value. Literal text, including inert specifiers, is written
// as the target's printf would see it after C string escapes are applied.
func (r *Record) Format(w io.Writer, raw []byte) error {
	values, err := r.Decode(raw)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, s := range r.Template.Segments {
		switch s.Kind {
		case SegmentText:
			sb.WriteString(unescapeC(strings.ReplaceAll(s.Text, "%%", "%")))
		case SegmentInert:
			sb.WriteString(s.Text)
		case SegmentArg:
			formatValue(&sb, s.Text, values[s.Arg])
		}
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

func formatValue(sb *strings.Builder, token string, v any) {
	switch token {
	case "%f":
		sb.WriteString(formatDouble(v.(float64)))
	case "%c":
		sb.WriteByte(byte(v.(int64)))
	case "%d", "%ld":
		sb.WriteString(strconv.FormatInt(v.(int64), 10))
	case "%u", "%lu":
		sb.WriteString(strconv.FormatUint(v.(uint64), 10))
	}
}

// formatDouble renders f the way the target's %f does, including the
// lower-case spellings of the non-finite values.
func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			return "-nan"
		}
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// DispatchTable maps log identities to formatters.
type DispatchTable []Formatter

// NewDispatchTable indexes records by identity.
func NewDispatchTable(records []*Record) DispatchTable {
	table := make(DispatchTable, len(records))
	for _, r := range records {
		table[r.Identity] = r
	}
	return table
}

// Format renders the raw record captured for the log point with the given
// identity.
func (d DispatchTable) Format(w io.Writer, identity int, raw []byte) error {
	if identity < 0 || identity >= len(d) {
		return errors.Newf("unknown log identity %d", identity)
	}
	return d[identity].Format(w, raw)
}

// unescapeC applies C string literal escapes.
func unescapeC(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'x':
			j := i + 1
			for j < len(s) && strings.IndexByte("0123456789abcdefABCDEF", s[j]) >= 0 {
				j++
			}
			v, err := strconv.ParseUint(s[i+1:j], 16, 8)
			if err != nil {
				sb.WriteString(`\x`)
				continue
			}
			sb.WriteByte(byte(v))
			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 8)
			sb.WriteByte(byte(v))
			i = j - 1
		default:
			// \\ \" \' \?
			sb.WriteByte(e)
		}
	}
	return sb.String()
}
