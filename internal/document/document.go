package document

import (
	"fmt"
	"strings"

	"github.com/dshills/rewind/internal/model"
)

// Item is a titled node of a document outline.
type Item struct {
	id       model.ID
	title    string
	parent   model.Parent[Item]
	children model.Relation[*Item]
}

// NewItem creates an item that is not yet part of a document.
func NewItem(title string) *Item {
	return &Item{title: title}
}

// ID returns the item id, or model.NeutralID before the item is stored.
func (it *Item) ID() model.ID { return it.id }

// Title returns the item title.
func (it *Item) Title() string { return it.title }

// Parent returns the enclosing item, or nil for a root item.
func (it *Item) Parent() *Item { return it.parent.Get() }

// PreviousParent returns the parent the item had before its last move, if
// that item is still alive.
func (it *Item) PreviousParent() *Item { return it.parent.Previous() }

// Children returns the direct children in insertion order.
func (it *Item) Children() []*Item { return it.children.Related() }

// Depth returns the nesting level; root items are at 0.
func (it *Item) Depth() int {
	d := 0
	for p := it.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// String returns the title and id.
func (it *Item) String() string {
	return fmt.Sprintf("%q#%d", it.title, it.id)
}

// RecordID implements model.Record.
func (it *Item) RecordID() model.ID { return it.id }

// SetRecordID implements model.Record.
func (it *Item) SetRecordID(id model.ID) { it.id = id }

// Memento implements model.LightMemento. Only the title is captured;
// structure is restored by the commands themselves.
func (it *Item) Memento() any { return it.title }

// RestoreMemento implements model.LightMemento.
func (it *Item) RestoreMemento(m any) {
	if title, ok := m.(string); ok {
		it.title = title
	}
}

// Document is an outline of items.
type Document struct {
	items   *model.Store[*Item]
	changes *model.UnitOfWork[*Item]
}

// New creates an empty document.
func New() *Document {
	d := &Document{
		changes: model.NewUnitOfWork[*Item](),
	}
	d.items = model.NewStore(model.Hooks[*Item]{
		BeforeAdd:    d.beforeAdd,
		AfterAdd:     d.afterAdd,
		BeforeRemove: d.beforeRemove,
		AfterRemove:  d.afterRemove,
	})
	return d
}

func (d *Document) beforeAdd(it *Item) error {
	if strings.TrimSpace(it.title) == "" {
		return ErrEmptyTitle
	}
	if p := it.Parent(); p != nil && !d.items.Contains(p) {
		return fmt.Errorf("add %s below %s: %w", it, p, ErrUnknownParent)
	}
	return nil
}

func (d *Document) afterAdd(it *Item) {
	if p := it.Parent(); p != nil {
		_ = p.children.Attach(it)
	}
	d.changes.Insert(it)
}

func (d *Document) beforeRemove(it *Item) error {
	if !it.children.IsEmpty() {
		return fmt.Errorf("remove %s: %w", it, ErrHasChildren)
	}
	return nil
}

func (d *Document) afterRemove(it *Item) {
	if p := it.Parent(); p != nil {
		_ = p.children.Detach(it)
	}
	d.changes.Remove(it)
}

// Insert adds a new item below parent (nil for a root item) and assigns
// its id.
func (d *Document) Insert(it, parent *Item) error {
	if it.id != model.NeutralID {
		return fmt.Errorf("insert %s: %w", it, model.ErrAlreadyStored)
	}
	it.parent.Set(parent)
	if err := d.items.Add(it); err != nil {
		it.parent.Set(nil)
		it.parent.ResetPrevious()
		return err
	}
	return nil
}

// Restore puts back an item removed earlier, with its original id and
// parent.
func (d *Document) Restore(it *Item) error {
	return d.items.Restore(it)
}

// Delete removes an item. Items with children cannot be removed.
func (d *Document) Delete(it *Item) error {
	if !d.items.Contains(it) {
		return fmt.Errorf("delete %s: %w", it, ErrUnknownItem)
	}
	return d.items.Remove(it)
}

// Rename changes the title of an item.
func (d *Document) Rename(it *Item, title string) error {
	if !d.items.Contains(it) {
		return fmt.Errorf("rename %s: %w", it, ErrUnknownItem)
	}
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	it.title = title
	d.changes.Update(it)
	return nil
}

// Move reparents an item. A nil parent makes it a root item.
func (d *Document) Move(it, parent *Item) error {
	if !d.items.Contains(it) {
		return fmt.Errorf("move %s: %w", it, ErrUnknownItem)
	}
	if parent != nil && !d.items.Contains(parent) {
		return fmt.Errorf("move %s below %s: %w", it, parent, ErrUnknownParent)
	}
	for p := parent; p != nil; p = p.Parent() {
		if p == it {
			return fmt.Errorf("move %s below %s: %w", it, parent, ErrCycle)
		}
	}

	if old := it.Parent(); old != nil {
		_ = old.children.Detach(it)
	}
	if parent != nil {
		_ = parent.children.Attach(it)
	}
	it.parent.Set(parent)
	d.changes.Update(it)
	return nil
}

// touch records an external change to an item.
func (d *Document) touch(it *Item) {
	d.changes.Update(it)
}

// Find returns the item with the given id.
func (d *Document) Find(id model.ID) (*Item, bool) {
	return d.items.Find(id)
}

// Contains reports whether it is part of the document.
func (d *Document) Contains(it *Item) bool {
	return d.items.Contains(it)
}

// Items returns every item ordered by id.
func (d *Document) Items() []*Item {
	return d.items.Records()
}

// Roots returns the items without a parent, ordered by id.
func (d *Document) Roots() []*Item {
	return d.items.Filter(func(it *Item) bool { return it.Parent() == nil })
}

// Walk visits items depth first, roots ordered by id and children in
// insertion order.
func (d *Document) Walk(fn func(it *Item)) {
	var visit func(it *Item)
	visit = func(it *Item) {
		fn(it)
		for _, c := range it.Children() {
			visit(c)
		}
	}
	for _, r := range d.Roots() {
		visit(r)
	}
}

// Len returns the number of items.
func (d *Document) Len() int {
	return d.items.Len()
}

// Changes returns the pending changes since the last MarkSaved.
func (d *Document) Changes() *model.UnitOfWork[*Item] {
	return d.changes
}

// Dirty reports whether there are pending changes.
func (d *Document) Dirty() bool {
	return !d.changes.IsEmpty()
}

// MarkSaved forgets pending changes.
func (d *Document) MarkSaved() {
	d.changes.Reset()
}
