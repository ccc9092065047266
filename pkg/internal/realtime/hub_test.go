package realtime

import (
	"context"
	"testing"
	"time"
)

func receive(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case _, ok := <-sub.C:
		if !ok {
			t.Fatalf("subscription closed unexpectedly")
		}
	case <-time.After(time.Second):
		t.Fatalf("no signal on %s", sub.Topic)
	}
}

func TestHubSignalsSubscribers(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("pins")
	defer sub.Close()

	// The first snapshot is due right away.
	receive(t, sub)

	if err := hub.Publish(context.Background(), "pins"); err != nil {
		t.Fatal(err)
	}
	receive(t, sub)

	if hub.Generation("pins") != 1 {
		t.Fatalf("generation = %d", hub.Generation("pins"))
	}
}

func TestHubCoalescesBursts(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("pulses")
	defer sub.Close()
	receive(t, sub)

	for idx := 0; idx < 10; idx++ {
		_ = hub.Publish(context.Background(), "pulses")
	}
	receive(t, sub)

	select {
	case <-sub.C:
		t.Fatalf("burst produced more than one pending signal")
	default:
	}
	if hub.Generation("pulses") != 10 {
		t.Fatalf("generation = %d", hub.Generation("pulses"))
	}
}

func TestHubIgnoresOtherTopics(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("profiles")
	defer sub.Close()
	receive(t, sub)

	_ = hub.Publish(context.Background(), "pins")
	select {
	case <-sub.C:
		t.Fatalf("signalled for another topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriptionClose(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("reports")
	receive(t, sub)

	sub.Close()
	sub.Close()

	if _, ok := <-sub.C; ok {
		t.Fatalf("channel still open after close")
	}
	if hub.Count("reports") != 0 {
		t.Fatalf("subscription still registered")
	}
	_ = hub.Publish(context.Background(), "reports")
}

func TestNotifyWithoutHub(t *testing.T) {
	H = nil
	Notify("pins")
}
