package event

import "testing"

type testEvent struct{ N int }

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	Subscribe(bus, func(testEvent) { order = append(order, "first") })
	Subscribe(bus, func(testEvent) { order = append(order, "second") })

	Emit(bus, testEvent{N: 1})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected subscribers invoked in registration order, got %v", order)
	}
}

func TestEmitIsSynchronous(t *testing.T) {
	bus := NewBus()
	handled := false
	Subscribe(bus, func(testEvent) { handled = true })

	Emit(bus, testEvent{})

	if !handled {
		t.Fatal("expected Emit to deliver synchronously before returning")
	}
}

func TestEmitWithNoSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	// Emitting a type with zero subscribers must not panic.
	Emit(bus, testEvent{N: 42})
}

type otherEvent struct{}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := NewBus()
	var gotTest, gotOther bool
	Subscribe(bus, func(testEvent) { gotTest = true })
	Subscribe(bus, func(otherEvent) { gotOther = true })

	Emit(bus, testEvent{})

	if !gotTest {
		t.Fatal("expected testEvent subscriber invoked")
	}
	if gotOther {
		t.Fatal("expected otherEvent subscriber not invoked by a testEvent emit")
	}
}
