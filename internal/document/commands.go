package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/rewind/internal/model"
)

// Command is a reversible document edit.
//
// Commands are recorded by identity, so implementations must be pointer
// types (or otherwise comparable).
type Command interface {
	// Execute performs the command for the first time.
	Execute(doc *Document) error

	// Undo reverses the command.
	Undo(doc *Document) error

	// Redo performs the command again after an Undo. It restores what
	// Execute created instead of creating it anew.
	Redo(doc *Document) error

	// Description returns a human-readable description of the command.
	Description() string
}

// BaseCommand stands for the empty document. It does nothing.
type BaseCommand struct {
	Label string
}

// NewBaseCommand creates a base command.
func NewBaseCommand() *BaseCommand {
	return &BaseCommand{Label: "Initial state"}
}

func (*BaseCommand) Execute(*Document) error { return nil }
func (*BaseCommand) Undo(*Document) error    { return nil }
func (*BaseCommand) Redo(*Document) error    { return nil }

// Description implements Command.
func (c *BaseCommand) Description() string { return c.Label }

// AddItem adds a new item.
type AddItem struct {
	Title  string
	Parent *Item

	item *Item
}

// NewAddItem creates a command adding an item titled title below parent
// (nil for a root item).
func NewAddItem(title string, parent *Item) *AddItem {
	return &AddItem{Title: title, Parent: parent}
}

// Item returns the created item, or nil before Execute.
func (c *AddItem) Item() *Item {
	return c.item
}

// Execute creates and inserts the item.
func (c *AddItem) Execute(doc *Document) error {
	it := NewItem(c.Title)
	if err := doc.Insert(it, c.Parent); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	c.item = it
	return nil
}

// Undo removes the created item.
func (c *AddItem) Undo(doc *Document) error {
	return doc.Delete(c.item)
}

// Redo restores the created item with its original id.
func (c *AddItem) Redo(doc *Document) error {
	return doc.Restore(c.item)
}

// Description returns a human-readable description.
func (c *AddItem) Description() string {
	return "Add " + quote(c.Title)
}

// RemoveItem removes an item.
type RemoveItem struct {
	Item *Item
}

// NewRemoveItem creates a command removing it.
func NewRemoveItem(it *Item) *RemoveItem {
	return &RemoveItem{Item: it}
}

// Execute removes the item.
func (c *RemoveItem) Execute(doc *Document) error {
	if c.Item == nil {
		return ErrUnknownItem
	}
	return doc.Delete(c.Item)
}

// Undo puts the item back.
func (c *RemoveItem) Undo(doc *Document) error {
	return doc.Restore(c.Item)
}

// Redo removes the item again.
func (c *RemoveItem) Redo(doc *Document) error {
	return doc.Delete(c.Item)
}

// Description returns a human-readable description.
func (c *RemoveItem) Description() string {
	if c.Item == nil {
		return "Remove item"
	}
	return "Remove " + quote(c.Item.Title())
}

// RenameItem changes the title of an item.
type RenameItem struct {
	Item  *Item
	Title string

	reverter model.Reverter
}

// NewRenameItem creates a command renaming it to title.
func NewRenameItem(it *Item, title string) *RenameItem {
	return &RenameItem{Item: it, Title: title}
}

// Execute renames the item, remembering the old title.
func (c *RenameItem) Execute(doc *Document) error {
	if c.Item == nil || !doc.Contains(c.Item) {
		return ErrUnknownItem
	}
	c.reverter = model.Reverter{}
	c.reverter.Remember(c.Item)
	return doc.Rename(c.Item, c.Title)
}

// Undo restores the old title.
func (c *RenameItem) Undo(doc *Document) error {
	if !doc.Contains(c.Item) {
		return fmt.Errorf("undo rename: %w", ErrUnknownItem)
	}
	c.reverter.Restore()
	doc.touch(c.Item)
	return nil
}

// Redo applies the new title again.
func (c *RenameItem) Redo(doc *Document) error {
	return doc.Rename(c.Item, c.Title)
}

// Description returns a human-readable description.
func (c *RenameItem) Description() string {
	return "Rename to " + quote(c.Title)
}

// MoveItem reparents an item.
type MoveItem struct {
	Item *Item
	To   *Item

	from *Item
}

// NewMoveItem creates a command moving it below to (nil for the top level).
func NewMoveItem(it, to *Item) *MoveItem {
	return &MoveItem{Item: it, To: to}
}

// Execute moves the item, remembering the old parent.
func (c *MoveItem) Execute(doc *Document) error {
	if c.Item == nil {
		return ErrUnknownItem
	}
	from := c.Item.Parent()
	if err := doc.Move(c.Item, c.To); err != nil {
		return err
	}
	c.from = from
	return nil
}

// Undo moves the item back.
func (c *MoveItem) Undo(doc *Document) error {
	return doc.Move(c.Item, c.from)
}

// Redo moves the item again.
func (c *MoveItem) Redo(doc *Document) error {
	return doc.Move(c.Item, c.To)
}

// Description returns a human-readable description.
func (c *MoveItem) Description() string {
	if c.To == nil {
		return "Move to top level"
	}
	return "Move under " + quote(c.To.Title())
}

// Compound groups several commands into one history entry.
type Compound struct {
	Name     string
	Commands []Command
}

// NewCompound creates a compound command.
func NewCompound(name string, commands ...Command) *Compound {
	return &Compound{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order. If one fails, the ones before it are
// undone and the document is left as it was.
func (c *Compound) Execute(doc *Document) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(doc); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(doc)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *Compound) Undo(doc *Document) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(doc); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Redo replays all commands in order.
func (c *Compound) Redo(doc *Document) error {
	for i, cmd := range c.Commands {
		if err := cmd.Redo(doc); err != nil {
			return fmt.Errorf("redo compound command '%s' step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *Compound) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add appends a command.
func (c *Compound) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *Compound) IsEmpty() bool {
	return len(c.Commands) == 0
}

func quote(s string) string {
	if utf8.RuneCountInString(s) <= 20 {
		return fmt.Sprintf("%q", s)
	}
	r := []rune(s)
	return fmt.Sprintf("%q...", string(r[:20]))
}
