// Package script drives a session from Lua.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. Globals exposed to scripts:
//
//	add(title [, parent])       -- add an item, returns its id
//	remove(id)                  -- remove a childless item
//	rename(id, title)
//	move(id [, parent])         -- nil parent moves the item to the top level
//	undo() / redo()             -- return false when there was nothing to do
//	jump(n)                     -- move to history entry n (0 is the base)
//	undo_until(n) / redo_until(n)
//	clear()
//	capacity([n])               -- get or set the history capacity
//	history()                   -- list of {index, name, state, id, current}
//	items()                     -- outline of {id, title, parent, depth}
//	command{name=, execute=, undo=, redo=}
//
// command records a reversible Lua command in the history. Its functions
// must not call back into the history; redo defaults to execute.
//
// Failing operations raise Lua errors, so scripts can use pcall.
package script
