package alert

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

// WebhookSender POSTs a JSON payload to endpoint using a chat-style
// incoming-webhook shape compatible with Slack/Teams receivers.
type WebhookSender struct {
	Endpoint string
	AtAll    bool

	client *resty.Client
}

// NewWebhookSender builds a WebhookSender targeting endpoint.
func NewWebhookSender(endpoint string, atAll bool) *WebhookSender {
	return &WebhookSender{Endpoint: endpoint, AtAll: atAll, client: resty.New()}
}

type webhookPayload struct {
	Text           string `json:"text"`
	Workflow       string `json:"workflow"`
	TaskID         string `json:"task_id,omitempty"`
	Kind           string `json:"kind"`
	State          string `json:"state,omitempty"`
	Error          string `json:"error,omitempty"`
	ChannelMention string `json:"channel_mention,omitempty"`
}

// Send implements Sender. It never returns a nil *WebhookSender's transport
// error up through the engine (the caller, Manager.Emit, logs it) — this
// method itself returns the error faithfully so Manager can log it.
func (w *WebhookSender) Send(ctx context.Context, event Event) error {
	payload := webhookPayload{
		Text:     fmt.Sprintf("[%s] %s", event.Kind, event.Workflow),
		Workflow: event.Workflow,
		TaskID:   event.TaskID,
		Kind:     string(event.Kind),
		State:    event.State,
		Error:    event.Error,
	}
	if w.AtAll {
		payload.ChannelMention = "@all"
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.Endpoint)
	if err != nil {
		return fmt.Errorf("alert: webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alert: webhook responded with status %s", resp.Status())
	}
	return nil
}
