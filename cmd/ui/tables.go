package ui

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// NewTable builds a writer-backed table with the given header. Every
// gitpipe listing (branches, tags, stashes, remotes, object probes)
// goes through this so they all render alike.
func NewTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)
	return table
}
