// Package browser is an interactive terminal view of a session history.
//
// The list shows the base command, then past commands oldest first, then
// undone commands. The present point is marked with '>' and undone entries
// are dimmed. Keys:
//
//	up/down, k/j   move the selection
//	home/end       select the first or last entry
//	enter          jump to the selected entry
//	u / r          undo / redo
//	c              clear the history
//	q, esc         quit
//
// All session access happens on the goroutine running Run. Other goroutines
// hand work over through Reload, which posts a tcell interrupt event.
package browser
