package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_BroadcastsRunFinished(t *testing.T) {
	hub := NewHub(log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	at := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	hub.PublishRunFinished(RunFinishedEvent{RunType: "manual", Status: "ok", Pairs: 2}, at)

	select {
	case msg := <-c.send:
		var evt RunFinishedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if evt.Type != EventMatchingRunFinished || evt.Pairs != 2 || evt.Timestamp != "2024-06-10T09:00:00Z" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no broadcast received")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Fatalf("expected closed send channel")
	}
}

func TestHub_NilSafe(t *testing.T) {
	var hub *Hub
	hub.Broadcast([]byte("x"))
	hub.PublishRunFinished(RunFinishedEvent{}, time.Now())
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}
