// Package document is a small outline model edited through reversible
// commands.
//
// A Document holds titled items that may be nested. Commands (AddItem,
// RemoveItem, RenameItem, MoveItem and Compound) change it and know how to
// put it back. Strategy plugs the commands into a history.History so every
// edit can be undone, redone or jumped over.
//
// Redo restores the exact items an earlier Execute created, ids included, so
// commands further along the history keep pointing at live items.
package document
