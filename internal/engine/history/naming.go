package history

import (
	"reflect"
	"sync"
)

// Describer is implemented by commands that provide their own
// human-readable name.
type Describer interface {
	Description() string
}

// NameSource resolves a display name for a command.
// It returns false when it has no opinion.
type NameSource interface {
	CommandName(cmd any) (string, bool)
}

// NameResolver tries each source in order.
type NameResolver []NameSource

// DefaultResolver returns the standard resolution chain: the command's own
// Description, then reg (if not nil), then the command's type name.
func DefaultResolver(reg *NameRegistry) NameResolver {
	r := NameResolver{describerSource{}}
	if reg != nil {
		r = append(r, reg)
	}
	return append(r, typeNameSource{})
}

// Resolve returns the first name produced by the chain.
func (r NameResolver) Resolve(cmd any) string {
	for _, src := range r {
		if name, ok := src.CommandName(cmd); ok {
			return name
		}
	}
	return TypeName(reflect.TypeOf(cmd))
}

type describerSource struct{}

func (describerSource) CommandName(cmd any) (string, bool) {
	d, ok := cmd.(Describer)
	if !ok {
		return "", false
	}
	name := d.Description()
	return name, name != ""
}

type typeNameSource struct{}

func (typeNameSource) CommandName(cmd any) (string, bool) {
	return TypeName(reflect.TypeOf(cmd)), true
}

// NameRegistry maps command types to display names. It plays the role of
// declarative per-type metadata. Pointer and value forms of a type share
// one entry.
//
// A NameRegistry is safe for concurrent use.
type NameRegistry struct {
	mu    sync.RWMutex
	names map[reflect.Type]string
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		names: make(map[reflect.Type]string),
	}
}

// Register attaches name to the type of sample.
func (r *NameRegistry) Register(sample any, name string) {
	t := indirect(reflect.TypeOf(sample))
	if t == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[t] = name
}

// Unregister removes the name attached to the type of sample.
func (r *NameRegistry) Unregister(sample any) {
	t := indirect(reflect.TypeOf(sample))
	if t == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.names, t)
}

// Lookup returns the name registered for t.
func (r *NameRegistry) Lookup(t reflect.Type) (string, bool) {
	t = indirect(t)
	if t == nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[t]
	return name, ok
}

// CommandName implements NameSource.
func (r *NameRegistry) CommandName(cmd any) (string, bool) {
	return r.Lookup(reflect.TypeOf(cmd))
}

// TypeName derives a short name from a type: the bare type name for named
// types (pointers stripped), the full type string otherwise.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	it := indirect(t)
	if name := it.Name(); name != "" {
		return name
	}
	return t.String()
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
