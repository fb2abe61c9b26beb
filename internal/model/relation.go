package model

import "fmt"

// Relation is an ordered set of related objects.
type Relation[T comparable] struct {
	items []T
	index map[T]int
}

// Attach adds obj to the relation.
func (r *Relation[T]) Attach(obj T) error {
	if r.IsAttached(obj) {
		return fmt.Errorf("attach %v: %w", obj, ErrAlreadyAttached)
	}
	if r.index == nil {
		r.index = make(map[T]int)
	}
	r.index[obj] = len(r.items)
	r.items = append(r.items, obj)
	return nil
}

// Detach removes obj from the relation, keeping the order of the rest.
func (r *Relation[T]) Detach(obj T) error {
	i, ok := r.index[obj]
	if !ok {
		return fmt.Errorf("detach %v: %w", obj, ErrNotAttached)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, obj)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j]] = j
	}
	return nil
}

// IsAttached reports whether obj is in the relation.
func (r *Relation[T]) IsAttached(obj T) bool {
	_, ok := r.index[obj]
	return ok
}

// Len returns the number of related objects.
func (r *Relation[T]) Len() int {
	return len(r.items)
}

// IsEmpty reports whether the relation has no objects.
func (r *Relation[T]) IsEmpty() bool {
	return len(r.items) == 0
}

// Related returns a copy of the related objects in attach order.
func (r *Relation[T]) Related() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Filter returns the related objects accepted by keep, in attach order.
func (r *Relation[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, obj := range r.items {
		if keep(obj) {
			out = append(out, obj)
		}
	}
	return out
}
