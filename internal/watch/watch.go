// Package watch implements the optional live status broadcaster: a
// websocket endpoint that fans out task state transitions to connected
// viewers, one JSON event per websocket text message.
package watch

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/flowctl/flowctl/internal/engine"
	"github.com/flowctl/flowctl/internal/logging"
	"github.com/gorilla/websocket"
)

// clientBuffer bounds how many undelivered events a slow client can
// accumulate before its events start being dropped. A task dispatch must
// never block on a viewer; see §5.
const clientBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wireEvent is the JSON shape published to connected viewers.
type wireEvent struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
	Ts     string `json:"ts"`
}

// Broadcaster implements engine.StatusBroadcaster, fanning events out to
// every connected websocket client. Publish is best-effort: a full client
// buffer drops the event rather than blocking the engine.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[chan []byte]struct{})}
}

// Publish implements engine.StatusBroadcaster.
func (b *Broadcaster) Publish(event engine.StatusEvent) {
	payload, err := json.Marshal(wireEvent{
		TaskID: event.TaskID,
		State:  string(event.State),
		Ts:     event.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- payload:
		default:
			// client buffer full: drop rather than block the dispatcher.
		}
	}
}

// Handler upgrades the HTTP connection to a websocket and streams events to
// it until the client disconnects.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.FromContext(r.Context()).WarnContext(r.Context(), "watch: websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		ch := make(chan []byte, clientBuffer)
		b.register(ch)
		defer b.unregister(ch)

		for payload := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) register(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ch] = struct{}{}
}

func (b *Broadcaster) unregister(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, ch)
	close(ch)
}
