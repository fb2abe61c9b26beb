package app

import (
	"strconv"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/rewind/internal/document"
)

// ExportJSON encodes the history listing and the document outline as an
// indented JSON object:
//
//	{"past": 1, "future": 0, "capacity": 1000,
//	 "entries": [{"index": 0, "name": "...", "state": "base", ...}],
//	 "items": [{"id": 1, "title": "...", "depth": 0}]}
func ExportJSON(h *History, doc *document.Document) ([]byte, error) {
	out := []byte(`{"entries":[],"items":[]}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}

	set("past", h.PastCount())
	set("future", h.FutureCount())
	set("capacity", h.Capacity())

	current := h.Current()
	for i, d := range h.History() {
		prefix := "entries." + strconv.Itoa(i) + "."
		set(prefix+"index", i)
		set(prefix+"name", d.Name())
		set(prefix+"state", state(d))
		set(prefix+"id", d.ID())
		set(prefix+"executed_at", d.ExecutedAt().Format(time.RFC3339Nano))
		set(prefix+"current", d == current)
	}

	n := 0
	doc.Walk(func(it *document.Item) {
		prefix := "items." + strconv.Itoa(n) + "."
		set(prefix+"id", int64(it.ID()))
		set(prefix+"title", it.Title())
		set(prefix+"depth", it.Depth())
		if p := it.Parent(); p != nil {
			set(prefix+"parent", int64(p.ID()))
		}
		n++
	})

	if err != nil {
		return nil, err
	}
	return pretty.Pretty(out), nil
}
