package model

// LightMemento is implemented by objects that can snapshot and restore
// their own state. Implementations must be comparable, typically pointers.
type LightMemento interface {
	Memento() any
	RestoreMemento(m any)
}

// Reverter remembers snapshots of several objects and restores them in the
// order they were first remembered. The zero value is ready to use.
type Reverter struct {
	objects []LightMemento
	saved   map[LightMemento]any
}

// Remember snapshots obj, replacing an earlier snapshot of the same object.
func (r *Reverter) Remember(obj LightMemento) {
	if r.saved == nil {
		r.saved = make(map[LightMemento]any)
	}
	if _, ok := r.saved[obj]; !ok {
		r.objects = append(r.objects, obj)
	}
	r.saved[obj] = obj.Memento()
}

// Restore writes every snapshot back.
func (r *Reverter) Restore() {
	for _, obj := range r.objects {
		obj.RestoreMemento(r.saved[obj])
	}
}

// Len returns the number of remembered objects.
func (r *Reverter) Len() int {
	return len(r.objects)
}
