// Package model provides the bookkeeping pieces a reversible domain model is
// built from.
//
// Store is a keyed container handing out auto-incrementing ids. UnitOfWork
// tracks which records were inserted, updated or removed since the last
// save. Relation is an ordered set of related objects and Parent remembers a
// current value plus a weakly held previous one. Reverter snapshots objects
// implementing LightMemento so a command can put them back on undo.
//
// Nothing in this package is safe for concurrent use; the owning model
// serializes access.
package model
