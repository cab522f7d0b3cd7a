package alert

import (
	"context"

	"github.com/flowctl/flowctl/internal/logging"
)

// LogSender writes each event through the ambient structured logger. It is
// the default transport when a workflow declares no alert block.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(ctx context.Context, event Event) error {
	logging.FromContext(ctx).InfoContext(ctx, "alert",
		"kind", event.Kind,
		"workflow", event.Workflow,
		"task_id", event.TaskID,
		"state", event.State,
		"error", event.Error,
		"ts", event.Timestamp,
	)
	return nil
}
