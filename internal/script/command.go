package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/document"
)

// Command is a reversible command written in Lua. Its functions only touch
// Lua state; the document is left alone.
type Command struct {
	Name string

	engine  *Engine
	execute *lua.LFunction
	undo    *lua.LFunction
	redo    *lua.LFunction
}

var _ document.Command = (*Command)(nil)

// command implements command{name=, execute=, undo=, redo=}.
func (e *Engine) command(L *lua.LState) int {
	e.guard(L)
	def := L.CheckTable(1)

	cmd := &Command{engine: e}
	if name, ok := def.RawGetString("name").(lua.LString); ok {
		cmd.Name = string(name)
	}
	cmd.execute = checkFunction(L, def, "execute", true)
	cmd.undo = checkFunction(L, def, "undo", true)
	cmd.redo = checkFunction(L, def, "redo", false)

	check(L, e.session.Execute(cmd))
	return 0
}

func checkFunction(L *lua.LState, t *lua.LTable, field string, required bool) *lua.LFunction {
	switch v := t.RawGetString(field).(type) {
	case *lua.LFunction:
		return v
	case *lua.LNilType:
		if required {
			L.ArgError(1, fmt.Sprintf("field %q is required", field))
		}
		return nil
	default:
		L.ArgError(1, fmt.Sprintf("field %q must be a function, got %s", field, v.Type()))
		return nil
	}
}

// Execute runs the execute function.
func (c *Command) Execute(*document.Document) error {
	return c.call(c.execute)
}

// Undo runs the undo function.
func (c *Command) Undo(*document.Document) error {
	return c.call(c.undo)
}

// Redo runs the redo function, or execute when there is none.
func (c *Command) Redo(*document.Document) error {
	if c.redo == nil {
		return c.call(c.execute)
	}
	return c.call(c.redo)
}

// Description returns the name given in Lua, if any.
func (c *Command) Description() string {
	return c.Name
}

func (c *Command) call(fn *lua.LFunction) error {
	if c.engine.closed {
		return ErrClosed
	}
	c.engine.running = true
	defer func() { c.engine.running = false }()

	return c.engine.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
}
