package model

// Status is the pending change recorded for a record.
type Status int

const (
	// StatusNew marks a record inserted since the last save.
	StatusNew Status = iota + 1
	// StatusModified marks a saved record that changed.
	StatusModified
	// StatusRemoved marks a saved record that was removed.
	StatusRemoved
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusRemoved:
		return "removed"
	default:
		return "unchanged"
	}
}

// UnitOfWork tracks inserted, updated and removed records.
//
// Transitions:
//
//	Insert: untracked -> new, removed -> modified
//	Update: untracked -> modified
//	Remove: new -> untracked, modified -> removed,
//	        untracked -> removed (stored records only)
//
// Anything else leaves the ledger unchanged.
type UnitOfWork[R Record] struct {
	status map[R]Status
	order  []R
	counts [StatusRemoved + 1]int
}

// NewUnitOfWork creates an empty ledger.
func NewUnitOfWork[R Record]() *UnitOfWork[R] {
	return &UnitOfWork[R]{
		status: make(map[R]Status),
	}
}

// Insert records r as new.
func (u *UnitOfWork[R]) Insert(r R) {
	switch u.status[r] {
	case 0:
		u.set(r, StatusNew)
	case StatusRemoved:
		u.set(r, StatusModified)
	}
}

// Update records r as modified.
func (u *UnitOfWork[R]) Update(r R) {
	if _, ok := u.status[r]; !ok {
		u.set(r, StatusModified)
	}
}

// Remove records r as removed. Removing a new record cancels its insertion.
func (u *UnitOfWork[R]) Remove(r R) {
	switch u.status[r] {
	case StatusNew:
		u.forget(r)
	case StatusModified:
		u.set(r, StatusRemoved)
	case 0:
		if r.RecordID() != NeutralID {
			u.set(r, StatusRemoved)
		}
	}
}

// Status returns the pending change for r.
func (u *UnitOfWork[R]) Status(r R) (Status, bool) {
	s, ok := u.status[r]
	return s, ok
}

// IsEmpty reports whether nothing changed.
func (u *UnitOfWork[R]) IsEmpty() bool {
	return len(u.status) == 0
}

// IsUpdatingExisting reports whether any previously saved record changed.
func (u *UnitOfWork[R]) IsUpdatingExisting() bool {
	return u.counts[StatusModified] > 0 || u.counts[StatusRemoved] > 0
}

// InsertCount returns the number of new records.
func (u *UnitOfWork[R]) InsertCount() int { return u.counts[StatusNew] }

// UpdateCount returns the number of modified records.
func (u *UnitOfWork[R]) UpdateCount() int { return u.counts[StatusModified] }

// RemoveCount returns the number of removed records.
func (u *UnitOfWork[R]) RemoveCount() int { return u.counts[StatusRemoved] }

// Inserted returns new records in the order they were first tracked.
func (u *UnitOfWork[R]) Inserted() []R { return u.with(StatusNew) }

// Updated returns modified records in the order they were first tracked.
func (u *UnitOfWork[R]) Updated() []R { return u.with(StatusModified) }

// Removed returns removed records in the order they were first tracked.
func (u *UnitOfWork[R]) Removed() []R { return u.with(StatusRemoved) }

// Reset forgets every pending change.
func (u *UnitOfWork[R]) Reset() {
	clear(u.status)
	u.order = nil
	u.counts = [StatusRemoved + 1]int{}
}

func (u *UnitOfWork[R]) set(r R, s Status) {
	old, tracked := u.status[r]
	if !tracked {
		u.order = append(u.order, r)
	} else {
		u.counts[old]--
	}
	u.status[r] = s
	u.counts[s]++
}

func (u *UnitOfWork[R]) forget(r R) {
	u.counts[u.status[r]]--
	delete(u.status, r)
	for i, o := range u.order {
		if o == r {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
}

func (u *UnitOfWork[R]) with(s Status) []R {
	out := make([]R, 0, u.counts[s])
	for _, r := range u.order {
		if u.status[r] == s {
			out = append(out, r)
		}
	}
	return out
}
