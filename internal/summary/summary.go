// Package summary renders a workflow's WorkflowOutcome as a colorized,
// operator-facing table for the CLI.
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/flowctl/flowctl/internal/engine"
	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"
)

// maxErrorWidth is the column width the error text is wrapped at.
const maxErrorWidth = 60

// stateColor maps a terminal task state to the color used for its row.
var stateColor = map[engine.State]color.Color{
	engine.StateSucceeded: color.Green,
	engine.StateFailed:    color.Red,
	engine.StateCancelled: color.Yellow,
	engine.StateSkipped:   color.White,
	engine.StateRunning:   color.Cyan,
	engine.StatePending:   color.White,
}

// Write renders outcome to w as a per-task summary table: final state,
// duration, and the error message wrapped at maxErrorWidth columns. The
// error message is not truncated; captured stdout/stderr is not shown.
func Write(w io.Writer, outcome *engine.WorkflowOutcome) {
	ids := make([]string, 0, len(outcome.Tasks))
	for id := range outcome.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	status := color.Green.Sprint("SUCCEEDED")
	if !outcome.Success {
		status = color.Red.Sprint("FAILED")
	}
	fmt.Fprintf(w, "workflow %s: %s\n", outcome.WorkflowName, status)

	fmt.Fprintf(w, "%-24s %-10s %10s  %s\n", "TASK", "STATE", "DURATION", "ERROR")
	for _, id := range ids {
		res := outcome.Tasks[id]
		duration := "-"
		if !res.Start.IsZero() && !res.End.IsZero() {
			duration = res.End.Sub(res.Start).Round(time.Millisecond).String()
		}
		c := stateColor[res.State]
		errText := wordwrap.WrapString(res.ErrorMessage, maxErrorWidth)
		fmt.Fprintf(w, "%-24s %s %10s  %s\n", id, c.Sprintf("%-10s", string(res.State)), duration, errText)
	}
}
