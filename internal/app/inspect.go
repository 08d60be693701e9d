package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/specialistvlad/fsgen/internal/fstree"
	"github.com/specialistvlad/fsgen/internal/generator"
)

// inspect prints the flattened node table, the cross references and the log
// records.
func (a *App) inspect(model *generator.Artifact) error {
	nodes := tablewriter.NewWriter(a.outW)
	nodes.SetHeader([]string{"Index", "Path", "Parent", "Next", "Lower", "Tail", "Count", "Callback"})
	for i := range model.Nodes.Records {
		r := &model.Nodes.Records[i]
		nodes.Append([]string{
			strconv.Itoa(r.Index),
			r.Path,
			strconv.Itoa(r.Parent),
			strconv.Itoa(r.Next),
			strconv.Itoa(r.ChildrenLower),
			strconv.Itoa(r.ChildrenTail),
			strconv.Itoa(r.ChildrenCount),
			r.Callback,
		})
	}
	nodes.Render()

	fmt.Fprintf(a.outW, "\ncounters:   %s\nparameters: %s\n\n",
		formatList(model.XRef.Counters), formatList(model.XRef.Parameters))

	logs := tablewriter.NewWriter(a.outW)
	logs.SetHeader([]string{"ID", "Name", "Format", "Args", "Size", "Position"})
	for _, r := range model.Logs {
		var args []string
		for _, f := range r.Layout.Fields {
			args = append(args, fmt.Sprintf("%s@%d", f.Type.CType(), f.Offset))
		}
		logs.Append([]string{
			strconv.Itoa(r.Identity),
			r.Name,
			r.Source,
			strings.Join(args, " "),
			strconv.Itoa(r.Layout.Size),
			r.Pos.String(),
		})
	}
	logs.Render()
	return nil
}

func formatList(list []int) string {
	parts := make([]string, 0, len(list))
	for _, v := range list {
		if v == fstree.ListEnd {
			parts = append(parts, "end")
			continue
		}
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, " ")
}
