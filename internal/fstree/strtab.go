package fstree

import (
	"fmt"
	"strings"
)

// SymbolPrefix prefixes the C symbol of every string table entry.
const SymbolPrefix = "fs_string_"

// StringEntry is one unique node name in the string table.
type StringEntry struct {
	Value  string
	Symbol string
}

// StringTable deduplicates node names. Entries keep first-appearance order,
// which makes the emitted table deterministic.
type StringTable struct {
	entries []StringEntry
	byValue map[string]int
	symbols map[string]struct{}
}

// NewStringTable creates an empty table.
func NewStringTable() *StringTable {
	return &StringTable{
		byValue: make(map[string]int),
		symbols: make(map[string]struct{}),
	}
}

// Intern returns the reference of value, adding it on first use.
func (s *StringTable) Intern(value string) int {
	if ref, ok := s.byValue[value]; ok {
		return ref
	}
	ref := len(s.entries)
	s.entries = append(s.entries, StringEntry{Value: value, Symbol: s.newSymbol(value)})
	s.byValue[value] = ref
	return ref
}

// Entry returns the entry for a reference returned by Intern.
func (s *StringTable) Entry(ref int) StringEntry {
	return s.entries[ref]
}

// Entries returns all entries in reference order.
func (s *StringTable) Entries() []StringEntry {
	return s.entries
}

// Len returns the number of unique strings.
func (s *StringTable) Len() int {
	return len(s.entries)
}

func (s *StringTable) newSymbol(value string) string {
	base := SymbolPrefix + mangle(value)
	symbol := base
	for i := 1; ; i++ {
		if _, taken := s.symbols[symbol]; !taken {
			break
		}
		symbol = fmt.Sprintf("%s_%d", base, i)
	}
	s.symbols[symbol] = struct{}{}
	return symbol
}

// mangle maps a node name onto identifier characters. The root string keeps
// its historical symbol name.
func mangle(value string) string {
	if value == RootString {
		return RootName
	}
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "_x%02x", c)
		}
	}
	return sb.String()
}

// nodeString is the string a node name is emitted as. A node literally
// named after the root collapses onto the root's string.
func nodeString(name string) string {
	if name == RootName {
		return RootString
	}
	return name
}
