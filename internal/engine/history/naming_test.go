package history

import (
	"reflect"
	"testing"
)

type plainCmd struct {
	n int
}

type namedCmd struct {
	label string
}

func (c *namedCmd) Description() string { return c.label }

type fixedSource string

func (s fixedSource) CommandName(any) (string, bool) { return string(s), s != "" }

func TestDefaultResolver(t *testing.T) {
	reg := NewNameRegistry()
	reg.Register(&namedCmd{}, "Named From Registry")
	reg.Register(plainCmd{}, "Plain From Registry")

	tests := []struct {
		name string
		reg  *NameRegistry
		cmd  any
		want string
	}{
		{"type fallback", nil, &plainCmd{}, "plainCmd"},
		{"registry", reg, &plainCmd{}, "Plain From Registry"},
		{"registry value form", reg, plainCmd{}, "Plain From Registry"},
		{"self description wins", reg, &namedCmd{label: "Rename"}, "Rename"},
		{"empty description falls through", reg, &namedCmd{}, "Named From Registry"},
		{"unnamed type", nil, func() {}, "func()"},
		{"nil", nil, nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultResolver(tt.reg).Resolve(tt.cmd); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameResolverOrder(t *testing.T) {
	r := NameResolver{fixedSource(""), fixedSource("second"), fixedSource("third")}
	if got := r.Resolve(&plainCmd{}); got != "second" {
		t.Errorf("Resolve() = %q, want second", got)
	}
	if got := (NameResolver{}).Resolve(&plainCmd{}); got != "plainCmd" {
		t.Errorf("empty resolver = %q, want plainCmd", got)
	}
}

func TestNameRegistryUnregister(t *testing.T) {
	reg := NewNameRegistry()
	reg.Register(&plainCmd{}, "Plain")

	if name, ok := reg.Lookup(reflect.TypeOf(plainCmd{})); !ok || name != "Plain" {
		t.Fatalf("Lookup = %q, %v", name, ok)
	}
	reg.Unregister(plainCmd{})
	if _, ok := reg.Lookup(reflect.TypeOf(&plainCmd{})); ok {
		t.Error("expected entry to be removed")
	}
	reg.Register(nil, "ignored")
	if _, ok := reg.CommandName(nil); ok {
		t.Error("nil command should have no registered name")
	}
}

func TestHistoryUsesNameRegistry(t *testing.T) {
	reg := NewNameRegistry()
	reg.Register(&plainCmd{}, "Plain Edit")

	h, err := New[any](
		StrategyFuncs[any]{Base: &namedCmd{label: "Start"}},
		NotifierFunc[any](func(Notification[any]) {}),
		WithNameRegistry(reg),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	cmd := &plainCmd{}
	if err := h.Execute(cmd); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	d, _ := h.Describe(cmd)
	if d.Name() != "Plain Edit" {
		t.Errorf("Name() = %q", d.Name())
	}
	if d.Type() != reflect.TypeOf(cmd) {
		t.Errorf("Type() = %v", d.Type())
	}
	if h.Base().String() != "Start" {
		t.Errorf("base name = %q", h.Base().String())
	}
}
