package logrecord

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logPoint(line int, name, format string) annotation.LogPoint {
	return annotation.LogPoint{Name: name, Format: format, Pos: annotation.Pos{File: "log.i", Line: line}}
}

func generate(t *testing.T, opts Options, points ...annotation.LogPoint) []*Record {
	t.Helper()
	g, err := NewGenerator(opts)
	require.NoError(t, err)
	records, err := g.Generate(context.Background(), points)
	require.NoError(t, err)
	return records
}

func format(t *testing.T, r *Record, args ...any) string {
	t.Helper()
	raw, err := r.Capture(args...)
	require.NoError(t, err)
	require.Len(t, raw, r.Layout.Size)

	var buf bytes.Buffer
	require.NoError(t, r.Format(&buf, raw))
	return buf.String()
}

func TestGenerate_TemperatureExample(t *testing.T) {
	records := generate(t, Options{ABI: DefaultABI()}, logPoint(1, "evt_temp", "temp=%d.%dC"))
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 0, r.Identity)
	assert.Equal(t, "evt_temp_t", r.StructName())
	assert.Equal(t, "evt_temp_write", r.WriteFunc())
	assert.Equal(t, "evt_temp_format", r.FormatFunc())
	assert.Equal(t, "temp=%d.%dC", r.Source)
	require.Len(t, r.Layout.Fields, 2)
	assert.Equal(t, Int, r.Layout.Fields[0].Type)
	assert.Equal(t, Int, r.Layout.Fields[1].Type)
	assert.Equal(t, 8, r.Layout.Size)

	assert.Equal(t, "temp=23.5C", format(t, r, 23, 5))

	raw, err := r.Capture(23, 5)
	require.NoError(t, err)
	var f Formatter = r
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, raw))
	assert.Equal(t, "temp=23.5C", buf.String())
}

func TestGenerate_IdentitiesArePositional(t *testing.T) {
	records := generate(t, Options{ABI: DefaultABI()},
		logPoint(1, "a", "same %d"),
		logPoint(2, "b", "same %d"),
		logPoint(3, "c", "other"),
	)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.Identity)
	}
	// Identical format strings share a parsed template but stay distinct
	// log points.
	assert.Same(t, records[0].Template, records[1].Template)
	assert.NotEqual(t, records[0].Name, records[1].Name)
}

func TestGenerate_UnsupportedSpecifierIsAnError(t *testing.T) {
	g, err := NewGenerator(Options{ABI: DefaultABI()})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), []annotation.LogPoint{
		logPoint(1, "ok", "x=%d"),
		logPoint(4, "named", "name=%s"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedSpecifier))
	assert.Contains(t, err.Error(), "log.i:4")
	assert.Contains(t, err.Error(), `"%s"`)
}

func TestGenerate_LenientKeepsUnsupportedSpecifierAsText(t *testing.T) {
	records := generate(t, Options{ABI: DefaultABI(), Lenient: true},
		logPoint(1, "named", "name=%s id=%u"))
	r := records[0]
	require.Len(t, r.Layout.Fields, 1)
	assert.Equal(t, "name=%s id=7", format(t, r, uint(7)))
}

func TestGenerate_BarePercentIsText(t *testing.T) {
	records := generate(t, Options{ABI: DefaultABI()},
		logPoint(1, "full", "battery at 100%"),
		logPoint(2, "loud", "100%! now %u"),
	)
	require.Len(t, records, 2)
	assert.Empty(t, records[0].Template.Inert())
	assert.Empty(t, records[0].Layout.Fields)
	assert.Equal(t, "battery at 100%", format(t, records[0]))
	assert.Equal(t, "100%! now 3", format(t, records[1], uint(3)))
}

func TestGenerate_DuplicateName(t *testing.T) {
	g, err := NewGenerator(Options{ABI: DefaultABI()})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), []annotation.LogPoint{
		logPoint(1, "evt", "a"),
		logPoint(2, "evt", "b"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
	assert.Contains(t, err.Error(), "log.i:1")
}

func TestNewGenerator_RejectsBadABI(t *testing.T) {
	_, err := NewGenerator(Options{ABI: ABI{LongSize: 2, ByteOrder: binary.LittleEndian}})
	require.Error(t, err)
}

func TestRecord_FormatAllTypes(t *testing.T) {
	testCases := []struct {
		name   string
		abi    ABI
		format string
		args   []any
		want   string
	}{
		{
			name:   "double",
			abi:    DefaultABI(),
			format: "v=%f",
			args:   []any{1.5},
			want:   "v=1.500000",
		},
		{
			name:   "non-finite doubles",
			abi:    DefaultABI(),
			format: "%f %f %f",
			args:   []any{math.NaN(), math.Inf(1), math.Inf(-1)},
			want:   "nan inf -inf",
		},
		{
			name:   "char",
			abi:    DefaultABI(),
			format: "[%c]",
			args:   []any{'A'},
			want:   "[A]",
		},
		{
			name:   "negative int",
			abi:    DefaultABI(),
			format: "%d",
			args:   []any{-42},
			want:   "-42",
		},
		{
			name:   "32-bit long",
			abi:    DefaultABI(),
			format: "%ld %lu",
			args:   []any{int32(math.MinInt32), uint32(math.MaxUint32)},
			want:   "-2147483648 4294967295",
		},
		{
			name:   "64-bit long",
			abi:    ABI{LongSize: 8, ByteOrder: binary.LittleEndian},
			format: "%ld %lu",
			args:   []any{int64(math.MinInt64), uint64(math.MaxUint64)},
			want:   "-9223372036854775808 18446744073709551615",
		},
		{
			name:   "big endian",
			abi:    ABI{LongSize: 4, ByteOrder: binary.BigEndian},
			format: "%u-%d",
			args:   []any{uint(258), 3},
			want:   "258-3",
		},
		{
			name:   "escapes and percent",
			abi:    DefaultABI(),
			format: `load 100%% \"%u\"\r\n`,
			args:   []any{5},
			want:   "load 100% \"5\"\r\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := generate(t, Options{ABI: tc.abi}, logPoint(1, "lp", tc.format))
			assert.Equal(t, tc.want, format(t, records[0], tc.args...))
		})
	}
}

func TestRecord_CaptureRejectsBadArguments(t *testing.T) {
	r := generate(t, Options{ABI: DefaultABI()}, logPoint(1, "lp", "%d %u"))[0]

	_, err := r.Capture(1)
	assert.Error(t, err, "too few arguments")
	_, err = r.Capture(int64(math.MaxInt32)+1, 1)
	assert.Error(t, err, "int overflow")
	_, err = r.Capture(1, -1)
	assert.Error(t, err, "negative unsigned")
	_, err = r.Capture("x", 1)
	assert.Error(t, err, "string for int")
}

func TestRecord_CaptureLayoutBytes(t *testing.T) {
	r := generate(t, Options{ABI: DefaultABI()}, logPoint(1, "lp", "%c %f"))[0]
	raw, err := r.Capture('A', 2.0)
	require.NoError(t, err)

	require.Len(t, raw, 16)
	assert.Equal(t, uint32('A'), binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, []byte{0, 0, 0, 0}, raw[4:8], "padding")
	assert.Equal(t, 2.0, math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16])))
}

func TestRecord_DecodeRejectsWrongSize(t *testing.T) {
	r := generate(t, Options{ABI: DefaultABI()}, logPoint(1, "lp", "%d"))[0]
	_, err := r.Decode(make([]byte, 3))
	require.Error(t, err)
}

func TestDispatchTable_FormatsByIdentity(t *testing.T) {
	records := generate(t, Options{ABI: DefaultABI()},
		logPoint(1, "boot", "boot %u"),
		logPoint(2, "evt_temp", "temp=%d.%dC"),
		logPoint(3, "idle", "idle"),
	)
	table := NewDispatchTable(records)
	require.Len(t, table, 3)

	raw, err := records[1].Capture(23, 5)
	require.NoError(t, err)

	// Only the identity and the bytes are needed to render the record.
	var buf bytes.Buffer
	require.NoError(t, table.Format(&buf, 1, raw))
	assert.Equal(t, "temp=23.5C", buf.String())

	buf.Reset()
	require.NoError(t, table.Format(&buf, 2, nil))
	assert.Equal(t, "idle", buf.String())

	assert.Error(t, table.Format(&buf, 3, nil))
	assert.Error(t, table.Format(&buf, -1, nil))
}

func TestUnescapeC(t *testing.T) {
	assert.Equal(t, "a\tb\x01c\x7f?", unescapeC(`a\tb\001c\x7f\?`))
	assert.Equal(t, "nul\x00", unescapeC(`nul\0`))
	assert.Equal(t, `trailing\`, unescapeC(`trailing\`))
}
