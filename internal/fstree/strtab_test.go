package fstree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTable_Intern(t *testing.T) {
	s := NewStringTable()
	assert.Equal(t, 0, s.Intern(RootString))
	assert.Equal(t, 1, s.Intern("uart"))
	assert.Equal(t, 1, s.Intern("uart"))
	assert.Equal(t, 2, s.Intern("rx"))
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, StringEntry{Value: "/", Symbol: "fs_string___slash"}, s.Entry(0))
	assert.Equal(t, StringEntry{Value: "uart", Symbol: "fs_string_uart"}, s.Entry(1))
}

func TestStringTable_SymbolCollisions(t *testing.T) {
	s := NewStringTable()
	s.Intern("a.b")
	s.Intern("a_x2eb")

	entries := s.Entries()
	assert.Equal(t, "fs_string_a_x2eb", entries[0].Symbol)
	assert.Equal(t, "fs_string_a_x2eb_1", entries[1].Symbol)
}
