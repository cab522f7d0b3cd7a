package watch

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flowctl/flowctl/internal/engine"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutClientsNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	assert.NotPanics(t, func() {
		b.Publish(engine.StatusEvent{TaskID: "a", State: engine.StateRunning, Timestamp: time.Now()})
	})
}

func TestBroadcastsEventToConnectedClient(t *testing.T) {
	b := NewBroadcaster()
	server := httptest.NewServer(b.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the handler goroutine a moment to register the client.
	time.Sleep(20 * time.Millisecond)
	b.Publish(engine.StatusEvent{TaskID: "load", State: engine.StateSucceeded, Timestamp: time.Now()})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var got wireEvent
	require.NoError(t, json.Unmarshal(message, &got))
	assert.Equal(t, "load", got.TaskID)
	assert.Equal(t, "SUCCEEDED", got.State)
}

func TestSlowClientDoesNotBlockPublish(t *testing.T) {
	b := NewBroadcaster()
	ch := make(chan []byte) // unbuffered, never read from
	b.register(ch)
	defer b.unregister(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer+10; i++ {
			b.Publish(engine.StatusEvent{TaskID: "x", State: engine.StateRunning, Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow client")
	}
}
