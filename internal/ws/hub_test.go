package ws

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := NewClient("c1", nil, hub)
	hub.Register(c)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast("standings", []string{"VER", "HAM"})

	select {
	case msg := <-c.send:
		if msg.Type != messageTypeSnapshot || msg.Category != "standings" {
			t.Errorf("got message %+v, want standings snapshot", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}

	hub.Unregister(c)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 0 })

	// The hub closes the send channel on unregister
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := NewClient("slow", nil, hub)
	hub.Register(c)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	// Fill the client's buffer, then one more broadcast trips the eviction
	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast("timing", i)
	}

	waitFor(t, 2*time.Second, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_UnregisterAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient("c1", nil, hub)
	hub.Register(c)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-stopped

	// Pump teardown calls Unregister after the loop is gone; it must return.
	finished := make(chan struct{})
	go func() {
		hub.Unregister(c)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub shutdown")
	}

	// Late registrations are no-ops, not deadlocks
	hub.Register(NewClient("c2", nil, hub))
	if hub.ClientCount() != 0 {
		t.Errorf("client count = %d after shutdown, want 0", hub.ClientCount())
	}
}
