package model

import "errors"

// Sentinel errors for the model package.
var (
	// ErrAlreadyStored is returned when adding a record that already has an
	// id.
	ErrAlreadyStored = errors.New("record already has an id")

	// ErrNotStored is returned when a record or id is not in the store.
	ErrNotStored = errors.New("record not stored")

	// ErrDuplicateID is returned when restoring a record whose id is taken.
	ErrDuplicateID = errors.New("record id already in use")

	// ErrNeutralID is returned when restoring a record without an id.
	ErrNeutralID = errors.New("record has the neutral id")

	// ErrAlreadyAttached is returned by Relation.Attach.
	ErrAlreadyAttached = errors.New("object already attached")

	// ErrNotAttached is returned by Relation.Detach.
	ErrNotAttached = errors.New("object not attached")
)
