package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyDeliversToRegisteredClient(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	client := &Client{UserID: "alice", Send: make(chan []byte, 1)}
	m.Register <- client

	m.Notify("alice", "trade_completed", map[string]interface{}{"trade_id": "t-1"})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), "trade_completed")
		assert.Contains(t, string(msg), "t-1")
	case <-time.After(time.Second):
		t.Fatal("client did not receive the event")
	}
}

func TestReconnectKeepsReplacementClient(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	stale := &Client{UserID: "alice", Send: make(chan []byte, 1)}
	m.Register <- stale

	replacement := &Client{UserID: "alice", Send: make(chan []byte, 1)}
	m.Register <- replacement

	// The stale connection tears down after the reconnect.
	m.Unregister <- stale

	m.Notify("alice", "trade_completed", map[string]interface{}{"trade_id": "t-1"})

	select {
	case msg := <-replacement.Send:
		assert.Contains(t, string(msg), "trade_completed")
	case <-time.After(time.Second):
		t.Fatal("replacement client did not receive the event")
	}

	select {
	case _, open := <-stale.Send:
		assert.False(t, open, "stale client channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("stale client channel was not closed")
	}
}
