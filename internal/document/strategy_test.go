package document

import (
	"errors"
	"testing"

	"github.com/dshills/rewind/internal/engine/history"
)

func newHistory(t *testing.T, opts ...history.Option) (*docHistory, *Document) {
	t.Helper()
	doc := New()
	h, err := history.New[Command](NewStrategy(doc, nil), history.NotifierFunc[Command](func(history.Notification[Command]) {}), opts...)
	if err != nil {
		t.Fatalf("history.New failed: %v", err)
	}
	return h, doc
}

// docHistory is the history type used with documents.
type docHistory = history.History[Command]

func exec(t *testing.T, h *docHistory, cmds ...Command) {
	t.Helper()
	for _, c := range cmds {
		if err := h.Execute(c); err != nil {
			t.Fatalf("Execute(%s) failed: %v", c.Description(), err)
		}
	}
}

func TestStrategyRedoKeepsIDs(t *testing.T) {
	h, doc := newHistory(t)
	addA := NewAddItem("a", nil)
	exec(t, h, addA)
	addB := NewAddItem("b", addA.Item())
	exec(t, h, addB)

	idB := addB.Item().ID()
	if err := h.JumpTo(h.Base()); err != nil {
		t.Fatalf("JumpTo(base) failed: %v", err)
	}
	if doc.Len() != 0 {
		t.Fatalf("Len = %d after undoing everything", doc.Len())
	}

	d, _ := h.Describe(addB)
	if err := h.JumpTo(d); err != nil {
		t.Fatalf("JumpTo(addB) failed: %v", err)
	}
	if got := outline(doc); got != "a .b" {
		t.Errorf("outline = %q", got)
	}
	if addB.Item().ID() != idB {
		t.Errorf("id changed on redo: %d -> %d", idB, addB.Item().ID())
	}

	rename := NewRenameItem(addB.Item(), "beta")
	exec(t, h, rename)
	if got := outline(doc); got != "a .beta" {
		t.Errorf("outline = %q", got)
	}
	_ = h.Undo()
	if got := outline(doc); got != "a .b" {
		t.Errorf("outline after undo rename = %q", got)
	}
}

func TestStrategyExecuteFailureKeepsHistory(t *testing.T) {
	h, doc := newHistory(t)
	addA := NewAddItem("a", nil)
	exec(t, h, addA)
	exec(t, h, NewAddItem("b", addA.Item()))

	err := h.Execute(NewRemoveItem(addA.Item()))
	if !errors.Is(err, history.ErrExecutionFailed) || !errors.Is(err, ErrHasChildren) {
		t.Fatalf("Execute(remove a) = %v", err)
	}
	if h.PastCount() != 2 || doc.Len() != 2 {
		t.Errorf("past=%d len=%d", h.PastCount(), doc.Len())
	}
}

func TestCompound(t *testing.T) {
	h, doc := newHistory(t)
	addA := NewAddItem("a", nil)
	addC := NewAddItem("c", nil)
	exec(t, h, addA, addC)

	group := NewCompound("Reorganize",
		NewAddItem("b", addA.Item()),
		NewMoveItem(addC.Item(), addA.Item()),
		NewRenameItem(addA.Item(), "alpha"),
	)
	exec(t, h, group)
	if got := outline(doc); got != "alpha .b .c" {
		t.Errorf("outline = %q", got)
	}

	_ = h.Undo()
	if got := outline(doc); got != "a c" {
		t.Errorf("outline after undo = %q", got)
	}
	_ = h.Redo()
	if got := outline(doc); got != "alpha .b .c" {
		t.Errorf("outline after redo = %q", got)
	}

	d, _ := h.Describe(group)
	if d.Name() != "Reorganize" {
		t.Errorf("Name = %q", d.Name())
	}
}

func TestCompoundRollsBackOnFailure(t *testing.T) {
	h, doc := newHistory(t)
	addA := NewAddItem("a", nil)
	exec(t, h, addA)

	group := NewCompound("",
		NewAddItem("b", nil),
		NewMoveItem(addA.Item(), addA.Item()),
	)
	err := h.Execute(group)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Execute = %v, want ErrCycle", err)
	}
	if got := outline(doc); got != "a" {
		t.Errorf("outline = %q", got)
	}
	if group.Description() != "2 operations" {
		t.Errorf("Description = %q", group.Description())
	}
}

func TestCommandDescriptions(t *testing.T) {
	it := NewItem("item")
	tests := []struct {
		cmd  Command
		want string
	}{
		{NewBaseCommand(), "Initial state"},
		{NewAddItem("note", nil), `Add "note"`},
		{NewAddItem("a very long title for an item", nil), `Add "a very long title fo"...`},
		{NewRemoveItem(it), `Remove "item"`},
		{NewRenameItem(it, "new"), `Rename to "new"`},
		{NewMoveItem(it, nil), "Move to top level"},
		{NewMoveItem(it, NewItem("box")), `Move under "box"`},
		{NewCompound("", NewRemoveItem(it)), `Remove "item"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.cmd.Description(); got != tt.want {
				t.Errorf("Description = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplayFailureAfterExternalEdit(t *testing.T) {
	h, doc := newHistory(t)
	addA := NewAddItem("a", nil)
	exec(t, h, addA)
	exec(t, h, NewRenameItem(addA.Item(), "alpha"))

	// Removing the item behind the history's back breaks the rename undo.
	if err := doc.Delete(addA.Item()); err != nil {
		t.Fatal(err)
	}
	err := h.Undo()
	var replayErr *history.ReplayError
	if !errors.As(err, &replayErr) || !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("Undo = %v", err)
	}
	if h.HasPast() || h.HasFuture() {
		t.Error("history should be wiped")
	}
}
