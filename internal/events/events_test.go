package events

import "testing"

func TestHub_EmitReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	calls := 0
	hub.SubscribeUnauthorized(func() { calls++ })
	hub.SubscribeUnauthorized(func() { calls++ })

	hub.EmitUnauthorized()

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsub := hub.SubscribeUnauthorized(func() { calls++ })

	hub.EmitUnauthorized()
	unsub()
	hub.EmitUnauthorized()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestHub_EmitWithNoSubscribers(t *testing.T) {
	hub := NewHub()
	// Must not panic.
	hub.EmitUnauthorized()
}

func TestHub_ReentrantUnsubscribe(t *testing.T) {
	hub := NewHub()

	calls := 0
	var unsub Unsubscribe
	unsub = hub.SubscribeUnauthorized(func() {
		calls++
		unsub()
	})

	hub.EmitUnauthorized()
	hub.EmitUnauthorized()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
