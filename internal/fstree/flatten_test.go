package fstree

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/fspath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command(t *testing.T, line int, path, callback string) annotation.Declaration {
	t.Helper()
	p, err := fspath.Parse(path)
	require.NoError(t, err)
	return annotation.Declaration{
		Kind:     annotation.KindCommand,
		Path:     p,
		Callback: callback,
		Pos:      annotation.Pos{File: "test.i", Line: line},
	}
}

func flattenDecls(t *testing.T, decls ...annotation.Declaration) *Table {
	t.Helper()
	tree, err := Build(context.Background(), decls)
	require.NoError(t, err)
	table := Flatten(context.Background(), tree)
	require.NoError(t, table.Verify())
	return table
}

func formatRecord(t *Table, rec *Record) string {
	name := t.Strings.Entry(rec.NameRef).Value
	if rec.IsLeaf() {
		return fmt.Sprintf("%d %s parent=%d next=%d callback=%s",
			rec.Index, name, rec.Parent, rec.Next, rec.Callback)
	}
	return fmt.Sprintf("%d %s parent=%d next=%d lower=%d tail=%d count=%d",
		rec.Index, name, rec.Parent, rec.Next, rec.ChildrenLower, rec.ChildrenTail, rec.ChildrenCount)
}

func TestFlatten_DataDriven(t *testing.T) {
	var table *Table
	datadriven.RunTest(t, "testdata/flatten", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "flatten":
			var decls []annotation.Declaration
			for i, line := range strings.Split(strings.TrimSpace(td.Input), "\n") {
				if line == "" {
					continue
				}
				fields := strings.Fields(line)
				require.Len(t, fields, 2, "want `<path> <callback>`")
				decls = append(decls, command(t, i+1, fields[0], fields[1]))
			}
			table = flattenDecls(t, decls...)

			var buf strings.Builder
			for i := range table.Records {
				fmt.Fprintln(&buf, formatRecord(table, &table.Records[i]))
			}
			return buf.String()

		case "children":
			var path string
			td.ScanArgs(t, "path", &path)
			index, ok := table.Lookup(path)
			require.True(t, ok, "no record for %s", path)

			var buf strings.Builder
			for _, child := range table.ChildrenOf(index) {
				fmt.Fprintf(&buf, "%d %s\n", child, table.Records[child].Name)
			}
			return buf.String()

		case "strings":
			var buf strings.Builder
			for i, e := range table.Strings.Entries() {
				fmt.Fprintf(&buf, "%d %s %q\n", i, e.Symbol, e.Value)
			}
			return buf.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

func TestFlatten_SpecExampleFollowsDeclaredOrder(t *testing.T) {
	table := flattenDecls(t,
		command(t, 1, "/fs/status", "cmd_status"),
		command(t, 2, "/fs/reboot", "cmd_reboot"),
	)

	require.Len(t, table.Records, 4)
	fs := table.Records[1]
	assert.Equal(t, "fs", fs.Name)
	assert.Equal(t, 2, fs.ChildrenCount)

	var names []string
	for _, child := range table.ChildrenOf(1) {
		names = append(names, table.Records[child].Name)
	}
	assert.Equal(t, []string{"reboot", "status"}, names)

	// Declaring in the opposite order flips the chain.
	table = flattenDecls(t,
		command(t, 1, "/fs/reboot", "cmd_reboot"),
		command(t, 2, "/fs/status", "cmd_status"),
	)
	names = names[:0]
	for _, child := range table.ChildrenOf(1) {
		names = append(names, table.Records[child].Name)
	}
	assert.Equal(t, []string{"status", "reboot"}, names)
}

// wideTree declares a tree with a mix of fan-out and depth.
func wideTree(t *testing.T) []annotation.Declaration {
	var decls []annotation.Declaration
	line := 0
	for _, top := range []string{"kernel", "drivers", "inet", "oam"} {
		for _, mid := range []string{"a", "b", "c"} {
			for _, leaf := range []string{"x", "y"} {
				line++
				path := "/" + top + "/" + mid + "/" + leaf
				decls = append(decls, command(t, line, path, "cmd_"+top+"_"+mid+"_"+leaf))
			}
		}
		line++
		decls = append(decls, command(t, line, "/"+top+"/list", "cmd_"+top+"_list"))
	}
	return decls
}

func TestFlatten_SiblingChainsVisitEachChildOnce(t *testing.T) {
	table := flattenDecls(t, wideTree(t)...)

	for i := range table.Records {
		rec := &table.Records[i]
		if rec.IsLeaf() {
			continue
		}
		children := table.ChildrenOf(i)
		require.Len(t, children, rec.ChildrenCount)

		seen := make(map[int]bool)
		for _, c := range children {
			assert.False(t, seen[c], "child %d of %d visited twice", c, i)
			seen[c] = true
			assert.Equal(t, i, table.Records[c].Parent)
		}
		last := children[len(children)-1]
		assert.Equal(t, NoSibling, table.Records[last].Next)
	}
}

func TestFlatten_SubtreesAreContiguous(t *testing.T) {
	table := flattenDecls(t, wideTree(t)...)
	sizes := table.SubtreeSizes()

	assert.Equal(t, len(table.Records), sizes[RootIndex])
	for i := range table.Records {
		// Every ancestor of i must contain i in its range.
		for a := table.Records[i].Parent; a != NoParent; a = table.Records[a].Parent {
			assert.True(t, i > a && i <= a+sizes[a]-1, "record %d escapes ancestor %d", i, a)
		}
	}
}

func TestFlatten_PathRoundTrip(t *testing.T) {
	decls := wideTree(t)
	table := flattenDecls(t, decls...)

	for _, decl := range decls {
		index, ok := table.Lookup(decl.Path.String())
		require.True(t, ok, "no record for %s", decl.Path)
		assert.Equal(t, decl.Path.String(), table.FullPath(index))
		assert.Equal(t, decl.Path.String(), table.Records[index].Path)
		assert.Equal(t, decl.Callback, table.Records[index].Callback)
	}
}

func TestFlatten_RootEscapeNameSharesRootString(t *testing.T) {
	table := flattenDecls(t, command(t, 1, "/__slash", "cmd_odd"))
	require.Len(t, table.Records, 2)
	assert.Equal(t, table.Records[0].NameRef, table.Records[1].NameRef)
	assert.Equal(t, 1, table.Strings.Len())
}

func TestVerify_DetectsBrokenChain(t *testing.T) {
	table := flattenDecls(t,
		command(t, 1, "/fs/status", "cmd_status"),
		command(t, 2, "/fs/reboot", "cmd_reboot"),
	)
	table.Records[3].Next = 3
	require.Error(t, table.Verify())
}

func TestVerify_DetectsWrongCount(t *testing.T) {
	table := flattenDecls(t,
		command(t, 1, "/fs/status", "cmd_status"),
		command(t, 2, "/fs/reboot", "cmd_reboot"),
	)
	table.Records[1].ChildrenCount = 1
	require.Error(t, table.Verify())
}

func TestLookup(t *testing.T) {
	table := flattenDecls(t,
		command(t, 1, "/fs/status", "cmd_status"),
		command(t, 2, "/fs/reboot", "cmd_reboot"),
	)

	index, ok := table.Lookup("/fs/reboot")
	require.True(t, ok)
	assert.Equal(t, 3, index)

	index, ok = table.Lookup(RootString)
	require.True(t, ok)
	assert.Equal(t, RootIndex, index)

	_, ok = table.Lookup("/fs/missing")
	assert.False(t, ok)
	_, ok = table.Lookup("/fs/status/")
	assert.False(t, ok)
}
