package logrecord

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ArgType is the primitive C type of one record field.
type ArgType int

const (
	Double ArgType = iota
	Int
	Long
	UnsignedInt
	UnsignedLong
)

// CType returns the C spelling of the type.
func (t ArgType) CType() string {
	switch t {
	case Double:
		return "double"
	case Int:
		return "int"
	case Long:
		return "long"
	case UnsignedInt:
		return "unsigned int"
	case UnsignedLong:
		return "unsigned long"
	default:
		return fmt.Sprintf("ArgType(%d)", int(t))
	}
}

func (t ArgType) String() string {
	return t.CType()
}

// Signed reports whether the type is a signed integer.
func (t ArgType) Signed() bool {
	return t == Int || t == Long
}

// specifierTypes maps every recognized conversion to its argument type.
var specifierTypes = map[string]ArgType{
	"%f":  Double,
	"%c":  Int,
	"%d":  Int,
	"%ld": Long,
	"%u":  UnsignedInt,
	"%lu": UnsignedLong,
}

// ABI describes the target's C data model. int is always 32 bits and double
// 64 bits; only long varies between targets.
type ABI struct {
	LongSize  int
	ByteOrder binary.ByteOrder
}

// DefaultABI is the 32-bit little endian data model of the supported MCUs.
func DefaultABI() ABI {
	return ABI{LongSize: 4, ByteOrder: binary.LittleEndian}
}

// Validate checks that the ABI describes a supported data model.
func (a ABI) Validate() error {
	if a.LongSize != 4 && a.LongSize != 8 {
		return errors.Newf("unsupported long size %d: must be 4 or 8", a.LongSize)
	}
	if a.ByteOrder == nil {
		return errors.New("ABI byte order is not set")
	}
	return nil
}

// Size returns the size in bytes of t. Every type is naturally aligned, so
// this is also its alignment.
func (a ABI) Size(t ArgType) int {
	switch t {
	case Double:
		return 8
	case Long, UnsignedLong:
		return a.LongSize
	default:
		return 4
	}
}
