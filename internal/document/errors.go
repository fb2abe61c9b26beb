package document

import "errors"

// Sentinel errors for document edits.
var (
	// ErrUnknownItem is returned when an item is not in the document.
	ErrUnknownItem = errors.New("item not in document")

	// ErrUnknownParent is returned when the parent of an item is not in the
	// document.
	ErrUnknownParent = errors.New("parent not in document")

	// ErrHasChildren is returned when removing an item that still has
	// children.
	ErrHasChildren = errors.New("item has children")

	// ErrCycle is returned when moving an item below itself.
	ErrCycle = errors.New("item cannot be moved below itself")

	// ErrEmptyTitle is returned for items without a title.
	ErrEmptyTitle = errors.New("item title cannot be empty")
)
