package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/internal/runner"
)

// resultView is the printable form of a runner.Result
type resultView struct {
	ID     string `yaml:"id" json:"id"`
	Op     string `yaml:"op" json:"op"`
	Target string `yaml:"target" json:"target"`
	Status string `yaml:"status" json:"status"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

func newResultView(res runner.Result) resultView {
	req := res.Request
	v := resultView{ID: req.ID, Op: string(req.Kind), Target: req.Path, Status: "ok"}
	if req.Kind.UsesHandle() {
		v.Target = req.Handle
	}
	if res.Err != nil {
		v.Status = "error"
		v.Detail = res.Err.Error()
		return v
	}

	switch req.Kind {
	case memfs.CreateOp, memfs.OpenOp:
		v.Detail = "fd " + res.FD.String()
	case memfs.ReadOp:
		v.Detail = fmt.Sprintf("%d bytes %q", res.N, res.Data)
	case memfs.WriteOp:
		v.Detail = fmt.Sprintf("%d bytes", res.N)
	case memfs.SeekOp:
		v.Detail = "pos " + strconv.FormatInt(res.Pos, 10)
	case memfs.StatOp:
		v.Detail = fmt.Sprintf("ino %d mode %o size %d", res.Attr.Ino, res.Attr.Mode, res.Attr.Size)
	case memfs.LsOp:
		names := make([]string, 0, len(res.Entries))
		for _, e := range res.Entries {
			name := e.Name
			if e.IsDir() {
				name += "/"
			}
			names = append(names, name)
		}
		v.Detail = strings.Join(names, " ")
	}
	return v
}

// printResults writes results to w in format: table, json or yaml
func printResults(w io.Writer, format string, results []runner.Result) error {
	views := make([]resultView, 0, len(results))
	for _, res := range results {
		views = append(views, newResultView(res))
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "OP", "TARGET", "STATUS", "DETAIL"})

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, v := range views {
		table.Append([]string{v.ID, v.Op, v.Target, v.Status, v.Detail})
	}
	table.Render()
	return nil
}
