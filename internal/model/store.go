package model

import (
	"cmp"
	"fmt"
	"slices"
)

// ID identifies a stored record.
type ID int64

const (
	// NeutralID marks a record that has never been stored.
	NeutralID ID = 0

	// FirstID is the first id handed out by a new store.
	FirstID ID = 1
)

// Record is the constraint for stored values. Implementations are usually
// pointers so that identity is preserved.
type Record interface {
	comparable
	RecordID() ID
	SetRecordID(id ID)
}

// Hooks lets the owner of a store react to, or veto, insertions and
// removals. A Before hook returning an error aborts the operation with the
// store unchanged.
type Hooks[R Record] struct {
	BeforeAdd    func(r R) error
	AfterAdd     func(r R)
	BeforeRemove func(r R) error
	AfterRemove  func(r R)
}

// Store is a keyed container with auto-incrementing ids.
type Store[R Record] struct {
	records map[ID]R
	nextID  ID
	hooks   Hooks[R]
}

// NewStore creates an empty store.
func NewStore[R Record](hooks Hooks[R]) *Store[R] {
	return &Store[R]{
		records: make(map[ID]R),
		nextID:  FirstID,
		hooks:   hooks,
	}
}

// Add assigns the next id to r and stores it. If the BeforeAdd hook fails
// the id is taken back and r keeps the neutral id.
func (s *Store[R]) Add(r R) error {
	if r.RecordID() != NeutralID {
		return fmt.Errorf("add #%d: %w", r.RecordID(), ErrAlreadyStored)
	}

	r.SetRecordID(s.nextID)
	if s.hooks.BeforeAdd != nil {
		if err := s.hooks.BeforeAdd(r); err != nil {
			r.SetRecordID(NeutralID)
			return err
		}
	}
	s.nextID++
	s.records[r.RecordID()] = r
	if s.hooks.AfterAdd != nil {
		s.hooks.AfterAdd(r)
	}
	return nil
}

// Restore puts back a record that was removed earlier, keeping its id. The
// add hooks run as for Add.
func (s *Store[R]) Restore(r R) error {
	id := r.RecordID()
	if id == NeutralID {
		return ErrNeutralID
	}
	if _, taken := s.records[id]; taken {
		return fmt.Errorf("restore #%d: %w", id, ErrDuplicateID)
	}
	if s.hooks.BeforeAdd != nil {
		if err := s.hooks.BeforeAdd(r); err != nil {
			return err
		}
	}
	s.records[id] = r
	if id >= s.nextID {
		s.nextID = id + 1
	}
	if s.hooks.AfterAdd != nil {
		s.hooks.AfterAdd(r)
	}
	return nil
}

// Remove deletes r. The stored record with r's id must be r itself. The
// record keeps its id so it can be restored.
func (s *Store[R]) Remove(r R) error {
	stored, ok := s.records[r.RecordID()]
	if !ok || stored != r {
		return fmt.Errorf("remove #%d: %w", r.RecordID(), ErrNotStored)
	}
	return s.remove(r)
}

// RemoveID deletes the record with the given id.
func (s *Store[R]) RemoveID(id ID) error {
	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("remove #%d: %w", id, ErrNotStored)
	}
	return s.remove(r)
}

func (s *Store[R]) remove(r R) error {
	if s.hooks.BeforeRemove != nil {
		if err := s.hooks.BeforeRemove(r); err != nil {
			return err
		}
	}
	delete(s.records, r.RecordID())
	if s.hooks.AfterRemove != nil {
		s.hooks.AfterRemove(r)
	}
	return nil
}

// Find returns the record with the given id.
func (s *Store[R]) Find(id ID) (R, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Contains reports whether r itself is stored.
func (s *Store[R]) Contains(r R) bool {
	stored, ok := s.records[r.RecordID()]
	return ok && stored == r
}

// Records returns all records ordered by id.
func (s *Store[R]) Records() []R {
	return s.Filter(nil)
}

// Filter returns the records accepted by keep, ordered by id. A nil keep
// accepts everything.
func (s *Store[R]) Filter(keep func(R) bool) []R {
	out := make([]R, 0, len(s.records))
	for _, r := range s.records {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b R) int {
		return cmp.Compare(a.RecordID(), b.RecordID())
	})
	return out
}

// Len returns the number of stored records.
func (s *Store[R]) Len() int {
	return len(s.records)
}

// NextID returns the id the next Add will assign.
func (s *Store[R]) NextID() ID {
	return s.nextID
}

// SetNextID overrides the id counter.
func (s *Store[R]) SetNextID(id ID) {
	s.nextID = id
}
