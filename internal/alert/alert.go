// Package alert emits structured records for workflow and task lifecycle
// events, delivering them through a pluggable transport.
package alert

import (
	"context"
	"time"

	"github.com/flowctl/flowctl/internal/logging"
)

// Kind enumerates the lifecycle events the engine emits alerts for.
type Kind string

const (
	KindWorkflowStart     Kind = "workflow-start"
	KindTaskFailed        Kind = "task-failed"
	KindTaskSucceeded     Kind = "task-succeeded"
	KindWorkflowSucceeded Kind = "workflow-succeeded"
	KindWorkflowFailed    Kind = "workflow-failed"
)

// Event is a single structured alert record.
type Event struct {
	Kind      Kind
	Workflow  string
	TaskID    string // empty for workflow-level events
	State     string
	Timestamp time.Time
	Error     string
}

// Sender delivers an Event to a transport. A transport error is always
// logged by Manager and never propagated to the engine (AlertTransportError
// never affects workflow outcome).
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Manager owns a Sender and holds no other state. It is passed explicitly
// through the engine's call graph rather than held as package-level state;
// a backfill reuses one Manager for all of its date points.
type Manager struct {
	sender Sender
}

// NewManager wraps sender. A nil sender is not replaced, so callers must
// supply a concrete Sender (LogSender is the default).
func NewManager(sender Sender) *Manager {
	return &Manager{sender: sender}
}

// Emit delivers event through the configured sender. Delivery failures are
// logged, never returned, matching §4.7/§7.
func (m *Manager) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := m.sender.Send(ctx, event); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "alert: delivery failed",
			"kind", event.Kind, "workflow", event.Workflow, "task_id", event.TaskID, "error", err)
	}
}
