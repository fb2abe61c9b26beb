package app

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/dshills/rewind/internal/document"
)

// TableOptions selects optional history columns.
type TableOptions struct {
	ShowIDs   bool
	ShowTimes bool
}

// RenderHistory writes the history listing as a table. The current entry
// is marked with '>'; undone entries are listed as "undone".
func RenderHistory(w io.Writer, h *History, opts TableOptions) {
	header := []string{"", "#", "command", "state"}
	if opts.ShowTimes {
		header = append(header, "executed")
	}
	if opts.ShowIDs {
		header = append(header, "id")
	}

	current := h.Current()
	rows := make([][]string, 0, h.PastCount()+h.FutureCount()+1)
	for i, d := range h.History() {
		marker := ""
		if d == current {
			marker = ">"
		}
		row := []string{marker, strconv.Itoa(i), d.Name(), state(d)}
		if opts.ShowTimes {
			row = append(row, d.ExecutedAt().Format(time.TimeOnly))
		}
		if opts.ShowIDs {
			row = append(row, d.ID())
		}
		rows = append(rows, row)
	}

	table := newTable(w, header)
	table.AppendBulk(rows)
	table.Render()
}

func state(d *Descriptor) string {
	switch {
	case d.IsBase():
		return "base"
	case d.IsFuture():
		return "undone"
	default:
		return "done"
	}
}

// RenderDocument writes the document outline as a table with the pending
// change of every item.
func RenderDocument(w io.Writer, doc *document.Document) {
	var rows [][]string
	doc.Walk(func(it *document.Item) {
		change := "-"
		if st, ok := doc.Changes().Status(it); ok {
			change = st.String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(int64(it.ID()), 10),
			strings.Repeat("  ", it.Depth()) + it.Title(),
			change,
		})
	})

	table := newTable(w, []string{"id", "item", "change"})
	table.AppendBulk(rows)
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
