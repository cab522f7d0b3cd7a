package summary

import (
	"bytes"
	"testing"
	"time"

	"github.com/flowctl/flowctl/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestWriteIncludesTaskRowsAndOverallStatus(t *testing.T) {
	outcome := &engine.WorkflowOutcome{
		WorkflowName: "daily_etl",
		Success:      false,
		Tasks: map[string]*engine.TaskResult{
			"extract": {TaskID: "extract", State: engine.StateSucceeded, Start: time.Now(), End: time.Now().Add(time.Second)},
			"load":    {TaskID: "load", State: engine.StateFailed, ErrorMessage: "exit status 1"},
		},
	}

	var buf bytes.Buffer
	Write(&buf, outcome)
	out := buf.String()

	assert.Contains(t, out, "daily_etl")
	assert.Contains(t, out, "extract")
	assert.Contains(t, out, "load")
	assert.Contains(t, out, "exit status 1")
}
