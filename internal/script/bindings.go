package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/model"
)

func (e *Engine) register() {
	funcs := map[string]lua.LGFunction{
		"add":        e.add,
		"remove":     e.remove,
		"rename":     e.rename,
		"move":       e.move,
		"undo":       e.undo,
		"redo":       e.redo,
		"jump":       e.entryOp(e.session.JumpTo),
		"undo_until": e.entryOp(e.session.UndoUntil),
		"redo_until": e.entryOp(e.session.RedoUntil),
		"clear":      e.clear,
		"capacity":   e.capacity,
		"history":    e.history,
		"items":      e.items,
		"command":    e.command,
	}
	for name, fn := range funcs {
		e.L.SetGlobal(name, e.L.NewFunction(fn))
	}
}

// check raises a Lua error for err. Lua errors unwind the Go stack, so it
// only returns when err is nil.
func check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}

// guard rejects history calls made from inside a running Lua command.
func (e *Engine) guard(L *lua.LState) {
	if e.running {
		check(L, ErrReentrant)
	}
}

func (e *Engine) item(L *lua.LState, n int) *document.Item {
	id := model.ID(L.CheckInt64(n))
	it, ok := e.session.Document().Find(id)
	if !ok {
		L.ArgError(n, "unknown item")
	}
	return it
}

func (e *Engine) optItem(L *lua.LState, n int) *document.Item {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return e.item(L, n)
}

func (e *Engine) add(L *lua.LState) int {
	e.guard(L)
	title := L.CheckString(1)
	parent := e.optItem(L, 2)

	cmd := document.NewAddItem(title, parent)
	check(L, e.session.Execute(cmd))
	L.Push(lua.LNumber(cmd.Item().ID()))
	return 1
}

func (e *Engine) remove(L *lua.LState) int {
	e.guard(L)
	check(L, e.session.Execute(document.NewRemoveItem(e.item(L, 1))))
	return 0
}

func (e *Engine) rename(L *lua.LState) int {
	e.guard(L)
	it := e.item(L, 1)
	check(L, e.session.Execute(document.NewRenameItem(it, L.CheckString(2))))
	return 0
}

func (e *Engine) move(L *lua.LState) int {
	e.guard(L)
	it := e.item(L, 1)
	check(L, e.session.Execute(document.NewMoveItem(it, e.optItem(L, 2))))
	return 0
}

func (e *Engine) undo(L *lua.LState) int {
	e.guard(L)
	ok := e.session.History().HasPast()
	check(L, e.session.Undo())
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) redo(L *lua.LState) int {
	e.guard(L)
	ok := e.session.History().HasFuture()
	check(L, e.session.Redo())
	L.Push(lua.LBool(ok))
	return 1
}

// entryOp binds a descriptor operation to a history index argument.
func (e *Engine) entryOp(op func(*app.Descriptor) error) lua.LGFunction {
	return func(L *lua.LState) int {
		e.guard(L)
		d, ok := e.session.Entry(L.CheckInt(1))
		if !ok {
			L.ArgError(1, "no such history entry")
		}
		check(L, op(d))
		return 0
	}
}

func (e *Engine) clear(L *lua.LState) int {
	e.guard(L)
	e.session.Clear()
	return 0
}

func (e *Engine) capacity(L *lua.LState) int {
	if L.GetTop() >= 1 {
		e.guard(L)
		cfg := e.session.Config().Clone()
		cfg.History.Capacity = L.CheckInt(1)
		check(L, e.session.ApplyConfig(cfg))
	}
	L.Push(lua.LNumber(e.session.History().Capacity()))
	return 1
}

func (e *Engine) history(L *lua.LState) int {
	h := e.session.History()
	current := h.Current()

	list := L.NewTable()
	for i, d := range h.History() {
		state := "done"
		switch {
		case d.IsBase():
			state = "base"
		case d.IsFuture():
			state = "undone"
		}
		entry := L.NewTable()
		entry.RawSetString("index", lua.LNumber(i))
		entry.RawSetString("name", lua.LString(d.Name()))
		entry.RawSetString("state", lua.LString(state))
		entry.RawSetString("id", lua.LString(d.ID()))
		entry.RawSetString("current", lua.LBool(d == current))
		list.Append(entry)
	}
	L.Push(list)
	return 1
}

func (e *Engine) items(L *lua.LState) int {
	list := L.NewTable()
	e.session.Document().Walk(func(it *document.Item) {
		entry := L.NewTable()
		entry.RawSetString("id", lua.LNumber(it.ID()))
		entry.RawSetString("title", lua.LString(it.Title()))
		if p := it.Parent(); p != nil {
			entry.RawSetString("parent", lua.LNumber(p.ID()))
		}
		entry.RawSetString("depth", lua.LNumber(it.Depth()))
		list.Append(entry)
	})
	L.Push(list)
	return 1
}
