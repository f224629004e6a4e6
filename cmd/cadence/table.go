package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderCacheTable lays out cached resolutions as song, artist and a
// right-aligned relative age column.
func renderCacheTable(rows [][3]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Song", "Artist", "Cached"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1], row[2]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
