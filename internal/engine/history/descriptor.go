package history

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Descriptor carries display and identity information about one command in
// the history. It can drive a history browser without handing out the
// commands themselves.
//
// A descriptor only refers to its command while the command is recorded.
// Once the command is discarded or the history is cleared, the reference is
// dropped and Accepts reports false for every command.
type Descriptor[C comparable] struct {
	id         string
	name       string
	typ        reflect.Type
	base       bool
	future     bool
	executedAt time.Time

	cmd  C
	live bool
}

func newDescriptor[C comparable](cmd C, name string, base bool) *Descriptor[C] {
	return &Descriptor[C]{
		id:         uuid.NewString(),
		name:       name,
		typ:        reflect.TypeOf(cmd),
		base:       base,
		executedAt: time.Now(),
		cmd:        cmd,
		live:       true,
	}
}

// ID returns a stable unique identifier for the descriptor.
func (d *Descriptor[C]) ID() string {
	return d.id
}

// Name returns the display name of the command.
func (d *Descriptor[C]) Name() string {
	return d.name
}

// Type returns the dynamic type of the command.
func (d *Descriptor[C]) Type() reflect.Type {
	return d.typ
}

// IsBase reports whether this is the base command representing the initial
// state.
func (d *Descriptor[C]) IsBase() bool {
	return d.base
}

// IsFuture reports whether the command is currently undone.
func (d *Descriptor[C]) IsFuture() bool {
	return d.future
}

// ExecutedAt returns when the command was first executed.
func (d *Descriptor[C]) ExecutedAt() time.Time {
	return d.executedAt
}

// Accepts reports whether this descriptor describes cmd.
func (d *Descriptor[C]) Accepts(cmd C) bool {
	return d.live && d.cmd == cmd
}

// Released reports whether the command has left the history.
func (d *Descriptor[C]) Released() bool {
	return !d.live
}

// String returns the display name.
func (d *Descriptor[C]) String() string {
	return d.name
}

func (d *Descriptor[C]) release() {
	var zero C
	d.cmd = zero
	d.live = false
}
