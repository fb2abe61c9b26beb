package model

import "weak"

// Parent holds a current value and remembers the previous one without
// keeping it alive.
type Parent[T any] struct {
	current  *T
	previous weak.Pointer[T]
}

// Set replaces the current value. The old value becomes the previous one;
// setting from an undefined state clears the previous value.
func (p *Parent[T]) Set(v *T) {
	if p.current != nil {
		p.previous = weak.Make(p.current)
	} else {
		p.previous = weak.Pointer[T]{}
	}
	p.current = v
}

// Get returns the current value, or nil.
func (p *Parent[T]) Get() *T {
	return p.current
}

// Previous returns the previous value if it is still reachable elsewhere.
func (p *Parent[T]) Previous() *T {
	return p.previous.Value()
}

// ResetPrevious forgets the previous value.
func (p *Parent[T]) ResetPrevious() {
	p.previous = weak.Pointer[T]{}
}

// IsDefined reports whether there is a current value.
func (p *Parent[T]) IsDefined() bool {
	return p.current != nil
}

// IsChanged reports whether a reachable previous value differs from the
// current one.
func (p *Parent[T]) IsChanged() bool {
	prev := p.previous.Value()
	return prev != nil && prev != p.current
}
