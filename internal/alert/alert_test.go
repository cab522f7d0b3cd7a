package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	events []Event
	err    error
}

func (r *recordingSender) Send(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestManagerEmitDeliversToSender(t *testing.T) {
	sender := &recordingSender{}
	m := NewManager(sender)
	m.Emit(context.Background(), Event{Kind: KindTaskFailed, Workflow: "w", TaskID: "t1", State: "FAILED"})
	require.Len(t, sender.events, 1)
	assert.Equal(t, KindTaskFailed, sender.events[0].Kind)
	assert.False(t, sender.events[0].Timestamp.IsZero())
}

func TestManagerEmitNeverPanicsOnSendError(t *testing.T) {
	sender := &recordingSender{err: assertError{}}
	m := NewManager(sender)
	assert.NotPanics(t, func() {
		m.Emit(context.Background(), Event{Kind: KindWorkflowFailed, Workflow: "w"})
	})
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestWebhookSenderPostsJSONPayload(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, true)
	err := sender.Send(context.Background(), Event{
		Kind: KindTaskFailed, Workflow: "daily_etl", TaskID: "load", State: "FAILED", Error: "exit 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "daily_etl", received.Workflow)
	assert.Equal(t, "@all", received.ChannelMention)
}

func TestWebhookSenderReturnsErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, false)
	err := sender.Send(context.Background(), Event{Kind: KindTaskFailed, Workflow: "w"})
	assert.Error(t, err)
}

func TestLogSenderNeverErrors(t *testing.T) {
	sender := LogSender{}
	err := sender.Send(context.Background(), Event{Kind: KindWorkflowStart, Workflow: "w"})
	assert.NoError(t, err)
}
