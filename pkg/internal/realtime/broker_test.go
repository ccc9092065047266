package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisBrokerFansOut(t *testing.T) {
	server := miniredis.RunT(t)

	newHub := func() *Hub {
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewHub(NewRedisBroker(client, "auraheart:changes"))
	}
	first, second := newHub(), newHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Run(ctx) }()
	go func() { _ = second.Run(ctx) }()

	sub := second.Subscribe("pins")
	defer sub.Close()
	receive(t, sub)

	// Wait until both listeners joined the channel.
	deadline := time.Now().Add(2 * time.Second)
	for server.PubSubNumSub("auraheart:changes")["auraheart:changes"] < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("listeners never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := first.Publish(ctx, "pins"); err != nil {
		t.Fatal(err)
	}
	receive(t, sub)

	if second.Generation("pins") != 1 {
		t.Fatalf("generation on the other instance = %d", second.Generation("pins"))
	}
}
