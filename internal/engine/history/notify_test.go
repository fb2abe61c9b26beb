package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rewind/internal/event"
)

func TestKindTopics(t *testing.T) {
	tests := []struct {
		kind  Kind
		name  string
		topic string
	}{
		{Changed, "changed", "history.changed"},
		{Executed, "executed", "history.command.executed"},
		{Replayed, "replayed", "history.command.replayed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind.String() != tt.name {
				t.Errorf("String() = %q", tt.kind.String())
			}
			if tt.kind.Topic().String() != tt.topic {
				t.Errorf("Topic() = %q", tt.kind.Topic())
			}
			if !tt.kind.Topic().Matches(TopicAll) {
				t.Errorf("%s should match %s", tt.kind.Topic(), TopicAll)
			}
		})
	}
}

func TestBusNotifierPublishesHistoryEvents(t *testing.T) {
	bus := event.NewBus()
	r := &recorder{}

	var all []string
	var executed int
	if _, err := Subscribe(bus, TopicAll, func(n Notification[*testCmd]) {
		all = append(all, n.Kind.String())
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	var h *History[*testCmd]
	if _, err := Subscribe(bus, TopicExecuted, func(n Notification[*testCmd]) {
		executed++
		if n.History != h {
			t.Error("notification should carry the history")
		}
		if n.History.PastCount() != executed {
			t.Errorf("PastCount = %d during notification %d", n.History.PastCount(), executed)
		}
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	h, err := New[*testCmd](r.strategy(), NewBusNotifier[*testCmd](bus, WithSource("test")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mustExecute(t, h, &testCmd{name: "a"}, &testCmd{name: "b"})
	_ = h.Undo()
	_ = h.JumpTo(h.Base())
	h.Clear()

	want := []string{"executed", "executed", "replayed", "replayed", "changed"}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
	if executed != 2 {
		t.Errorf("executed = %d, want 2", executed)
	}
}

func TestBusNotifierSurvivesHandlerPanic(t *testing.T) {
	bus := event.NewBus()
	r := &recorder{}
	_, _ = Subscribe(bus, TopicAll, func(Notification[*testCmd]) {
		panic("subscriber bug")
	})

	h, err := New[*testCmd](r.strategy(), NewBusNotifier[*testCmd](bus))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.Execute(&testCmd{name: "a"}); err != nil {
		t.Fatalf("Execute should not see subscriber failures: %v", err)
	}
	if got := bus.Stats().Panicked; got != 1 {
		t.Errorf("Panicked = %d, want 1", got)
	}
}
