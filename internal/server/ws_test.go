package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientSendNeverBlocks(t *testing.T) {
	// No writer goroutine is draining: the queue fills and further
	// sends must drop instead of stalling the caller.
	c := &client{
		out:  make(chan ServerMessage, 2),
		done: make(chan struct{}),
		log:  testLogger(),
	}

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.send(ServerMessage{Type: "state"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("send blocked on a full queue")
	}
	assert.Len(t, c.out, 2)
}

func TestClientSendAfterDoneIsDiscarded(t *testing.T) {
	c := &client{
		out:  make(chan ServerMessage),
		done: make(chan struct{}),
		log:  testLogger(),
	}
	close(c.done)

	finished := make(chan struct{})
	go func() {
		c.send(ServerMessage{Type: "state"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("send blocked after shutdown")
	}
}

func TestHubSendToUnknownUserIsNoop(t *testing.T) {
	h := NewHub(testLogger())
	h.Send("nobody", ServerMessage{Type: "state"})
}
