package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/document"
)

const help = "↑/↓ select  enter jump  u undo  r redo  c clear  q quit"

// minOutlineWidth is the screen width from which the document outline is
// shown beside the history.
const minOutlineWidth = 80

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleFuture   = tcell.StyleDefault.Dim(true)
	styleBase     = tcell.StyleDefault.Italic(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleOutline  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

// Draw renders the whole screen.
func (b *Browser) Draw() {
	b.screen.Clear()
	width, height := b.screen.Size()
	if width <= 0 || height < 3 {
		b.screen.Show()
		return
	}

	h := b.session.History()
	title := fmt.Sprintf(" rewind  past %d  future %d  capacity %d", h.PastCount(), h.FutureCount(), h.Capacity())
	fill(b.screen, 0, 0, width, styleTitle)
	drawText(b.screen, 0, 0, width, styleTitle, title)

	listWidth := width
	if width >= minOutlineWidth {
		listWidth = width * 3 / 5
		b.drawOutline(listWidth+1, 1, width, height-1)
	}
	b.drawList(0, 1, listWidth, height-1)

	status := b.status
	st := styleStatus
	if status == "" {
		status, st = help, styleDefault
	}
	drawText(b.screen, 0, height-1, width, st, status)
	b.screen.Show()
}

// drawList draws history entries in rows [top, bottom).
func (b *Browser) drawList(left, top, right, bottom int) {
	rows := bottom - top
	if rows <= 0 {
		return
	}
	b.scroll(rows)

	h := b.session.History()
	current := h.Current()
	list := h.History()
	for i := b.offset; i < len(list) && i-b.offset < rows; i++ {
		d := list[i]
		y := top + i - b.offset

		st := styleDefault
		switch {
		case i == b.selected:
			st = styleSelected
		case d.IsFuture():
			st = styleFuture
		case d.IsBase():
			st = styleBase
		}

		if i == b.selected {
			fill(b.screen, left, y, right, st)
		}
		drawText(b.screen, left, y, right, st, b.line(i, d, d == current))
	}
}

// scroll keeps the selection within the visible rows.
func (b *Browser) scroll(rows int) {
	switch {
	case b.selected < b.offset:
		b.offset = b.selected
	case b.selected >= b.offset+rows:
		b.offset = b.selected - rows + 1
	}
}

func (b *Browser) line(i int, d *app.Descriptor, current bool) string {
	var sb strings.Builder
	if current {
		sb.WriteString("> ")
	} else {
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "%3d  ", i)
	if b.showTimes {
		sb.WriteString(d.ExecutedAt().Format(time.TimeOnly))
		sb.WriteString("  ")
	}
	sb.WriteString(d.Name())
	if b.showIDs {
		sb.WriteString("  ")
		sb.WriteString(d.ID())
	}
	return sb.String()
}

// drawOutline draws the document items in rows [top, bottom).
func (b *Browser) drawOutline(left, top, right, bottom int) {
	for y := top; y < bottom; y++ {
		b.screen.SetContent(left-1, y, tcell.RuneVLine, nil, styleDefault)
	}

	y := top
	b.session.Document().Walk(func(it *document.Item) {
		if y >= bottom {
			return
		}
		text := strings.Repeat("  ", it.Depth()) + it.Title()
		drawText(b.screen, left+1, y, right, styleOutline, text)
		y++
	})
}

// drawText writes text from x on row y, clipped at right.
func drawText(s tcell.Screen, x, y, right int, style tcell.Style, text string) {
	state := -1
	for text != "" && x < right {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if width == 0 {
			continue
		}
		if x+width > right {
			break
		}
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
}

func fill(s tcell.Screen, x, y, right int, style tcell.Style) {
	for ; x < right; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
