// Package runner defines the task-invocation contract the execution engine
// dispatches through, plus concrete runners for each supported task type.
package runner

import (
	"context"

	"github.com/flowctl/flowctl/internal/config"
)

// Status is the terminal outcome of a single task invocation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is what a Runner reports back to the engine after a task
// completes.
type Result struct {
	Status       Status
	ExitCode     int
	Stdout       string
	Stderr       string
	DurationMS   int64
	ErrorMessage string
}

// TaskDescriptor is the runner-facing view of a task: every template and
// date-expression reference has already been resolved by the engine, so
// runners never touch the parameter store directly.
type TaskDescriptor struct {
	ID   string
	Type config.TaskType

	// ResolvedCommand is the shell command to execute (ShellRunner).
	ResolvedCommand string

	// ScriptPath is passed through verbatim (PythonRunner, PySparkRunner).
	ScriptPath string

	// ResolvedSQL is the SQL file's contents after template resolution
	// (SparkSQLRunner, HiveSQLRunner).
	ResolvedSQL string

	WorkingDir   string
	EngineConfig map[string]string

	// HasCustomCommand and ResolvedCustomCommand override the runner's
	// default invocation shape when the task descriptor set
	// custom_command.
	HasCustomCommand      bool
	ResolvedCustomCommand string
}

// ResolvedParams is the task's effective parameter overlay, keeping the
// explicit key order it was built with (the engine passes the task's
// parameter names sorted) so that flag generation (--key=value) is
// deterministic.
type ResolvedParams struct {
	order  []string
	values map[string]string
}

// NewResolvedParams builds a ResolvedParams from an explicit key order plus
// a value map. Keys in order but absent from values are skipped.
func NewResolvedParams(order []string, values map[string]string) ResolvedParams {
	return ResolvedParams{order: order, values: values}
}

// Args renders the parameters as "--key=value" flags in the key order given
// to NewResolvedParams.
func (p ResolvedParams) Args() []string {
	args := make([]string, 0, len(p.order))
	for _, k := range p.order {
		v, ok := p.values[k]
		if !ok {
			continue
		}
		args = append(args, "--"+k+"="+v)
	}
	return args
}

// Get returns the value of a single resolved parameter.
func (p ResolvedParams) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Runner is the abstract contract the engine invokes a task through.
type Runner interface {
	Invoke(ctx context.Context, task TaskDescriptor, params ResolvedParams, workingDir string) (Result, error)
}
