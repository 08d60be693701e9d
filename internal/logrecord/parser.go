package logrecord

import (
	"strings"
)

// SegmentKind classifies a piece of a format string.
type SegmentKind int

const (
	// SegmentText is literal text, possibly with %% escapes.
	SegmentText SegmentKind = iota
	// SegmentArg is a recognized specifier bound to a record field.
	SegmentArg
	// SegmentInert is a conversion that is not recognized.
	// It binds no field and is reproduced verbatim.
	SegmentInert
)

// Segment is one piece of a parsed format string.
type Segment struct {
	Kind SegmentKind
	// Text is the exact source text of the segment.
	Text string
	// Arg is the field index of a SegmentArg.
	Arg int
	// Offset is the byte offset of the segment in the format string.
	Offset int
}

// Template is a parsed format string.
type Template struct {
	Source   string
	Segments []Segment
	// Args holds one type per SegmentArg, in order of appearance.
	Args []ArgType
}

// String reassembles the format string from its segments. It always equals
// Source.
func (t *Template) String() string {
	var sb strings.Builder
	for _, s := range t.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Inert returns the unrecognized conversions.
func (t *Template) Inert() []Segment {
	var out []Segment
	for _, s := range t.Segments {
		if s.Kind == SegmentInert {
			out = append(out, s)
		}
	}
	return out
}

// ParseFormat splits a printf-style format string into segments. Parsing
// never fails: conversions other than the recognized ones come back as
// SegmentInert and it is up to the caller to reject them. A '%' that never
// reaches a conversion character stays part of the text.
func ParseFormat(format string) *Template {
	t := &Template{Source: format}

	textStart := 0
	flushText := func(end int) {
		if end > textStart {
			t.Segments = append(t.Segments, Segment{
				Kind:   SegmentText,
				Text:   format[textStart:end],
				Offset: textStart,
			})
		}
	}

	for i := 0; i < len(format); {
		if format[i] != '%' {
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			// %% stays part of the surrounding text.
			i += 2
			continue
		}

		end := conversionEnd(format, i)
		if !isConversion(format[end-1]) {
			// A '%' that never reaches a conversion character is plain text.
			i = end
			continue
		}
		token := format[i:end]
		flushText(i)
		if typ, ok := specifierTypes[token]; ok {
			t.Segments = append(t.Segments, Segment{Kind: SegmentArg, Text: token, Arg: len(t.Args), Offset: i})
			t.Args = append(t.Args, typ)
		} else {
			t.Segments = append(t.Segments, Segment{Kind: SegmentInert, Text: token, Offset: i})
		}
		i = end
		textStart = end
	}
	flushText(len(format))
	return t
}

// conversionChars end a conversion.
const conversionChars = "diouxXeEfFgGaAcspn"

// conversionEnd returns the end offset of the conversion that
// starts with the '%' at start. An incomplete conversion ends where the
// grammar stops matching.
func conversionEnd(format string, start int) int {
	i := start + 1
	for i < len(format) && strings.IndexByte("-+ #0'", format[i]) >= 0 {
		i++
	}
	i = skipCount(format, i)
	if i < len(format) && format[i] == '.' {
		i = skipCount(format, i+1)
	}
	for i < len(format) && strings.IndexByte("hlLqjzt", format[i]) >= 0 {
		i++
	}
	if i < len(format) && isConversion(format[i]) {
		i++
	}
	return i
}

func isConversion(c byte) bool {
	return strings.IndexByte(conversionChars, c) >= 0
}

func skipCount(format string, i int) int {
	if i < len(format) && format[i] == '*' {
		return i + 1
	}
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		i++
	}
	return i
}
