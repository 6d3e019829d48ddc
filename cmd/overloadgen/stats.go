package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/refaktor/overloadgen"
	"github.com/refaktor/overloadgen/rewrite"
)

var shapes = []rewrite.Shape{
	rewrite.Function,
	rewrite.Trait,
	rewrite.TraitImpl,
	rewrite.InherentImpl,
	rewrite.NotApplicable,
}

func printStats(w io.Writer, results []*overloadgen.FileResult, total overloadgen.Stats, took time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "==Expansion stats==\n")
	fmt.Fprintf(w, "Expanded %v file(s) in %v.\n", len(results), took)
	{
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"Item", "Count"})
		for _, sh := range shapes {
			tbl.Append([]string{sh.String(), fmt.Sprint(total.Items[sh])})
		}
		tbl.AppendBulk([][]string{
			{"dispatch types", fmt.Sprint(total.Types)},
			{"contracts", fmt.Sprint(total.Contracts)},
		})
		tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tbl.SetCenterSeparator("|")
		tbl.Render()
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "==Diagnostics==\n")
	{
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"File", "Warnings", "Errors"})
		for _, r := range results {
			tbl.Append([]string{r.Path, fmt.Sprint(r.Stats.Warnings), fmt.Sprint(r.Stats.Errors)})
		}
		tbl.Append([]string{"==TOTAL==", fmt.Sprint(total.Warnings), fmt.Sprint(total.Errors)})
		tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
		tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tbl.SetCenterSeparator("|")
		tbl.Render()
	}
}
