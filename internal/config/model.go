// Package config loads workflow, backfill, and runtime-overlay definitions
// from JSON files into a format-agnostic model, preserving unknown keys.
package config

import "encoding/json"

// TaskType enumerates the supported task runtimes.
type TaskType string

const (
	TaskTypeShell    TaskType = "shell"
	TaskTypePython   TaskType = "python"
	TaskTypePySpark  TaskType = "pyspark"
	TaskTypeSparkSQL TaskType = "spark-sql"
	TaskTypeHiveSQL  TaskType = "hive-sql"
)

// Task is a single node in a workflow's DAG.
type Task struct {
	ID         string            `json:"task_id"`
	Type       TaskType          `json:"type"`
	Command    string            `json:"command,omitempty"`
	ScriptPath string            `json:"script_path,omitempty"`
	SQLFile    string            `json:"sql_file,omitempty"`
	WorkingDir string            `json:"working_dir,omitempty"`
	EngineConf map[string]string `json:"engine_config,omitempty"`
	CustomCmd  string            `json:"custom_command,omitempty"`
	Params     map[string]string `json:"params,omitempty"`

	// Unknown preserves any task-level key not modeled above, so a
	// Load→Marshal round trip never silently drops caller data.
	Unknown map[string]json.RawMessage `json:"-"`
}

// Edge is a dependency pair: To depends on From.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Alert is the optional alert-delivery configuration block.
type Alert struct {
	Transport string `json:"transport"` // "log" (default) or "webhook"
	Endpoint  string `json:"endpoint,omitempty"`
	AtAll     bool   `json:"at_all,omitempty"`
}

// Workflow is the top-level workflow descriptor.
type Workflow struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	Tasks       []Task            `json:"tasks"`
	Edges       []Edge            `json:"dependencies,omitempty"`
	Alert       *Alert            `json:"alert,omitempty"`
	FailFast    *bool             `json:"fail_fast,omitempty"`

	// Unknown preserves any workflow-level key not modeled above.
	Unknown map[string]json.RawMessage `json:"-"`
}

// FailFastOrDefault returns the workflow's fail_fast setting, defaulting to
// true when unset.
func (w Workflow) FailFastOrDefault() bool {
	if w.FailFast == nil {
		return true
	}
	return *w.FailFast
}

// Backfill is the backfill-run specification.
type Backfill struct {
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	DateGranularity  string            `json:"date_granularity,omitempty"` // day|week|month
	CustomDates      []string          `json:"custom_dates,omitempty"`
	DateParamName    string            `json:"date_param_name,omitempty"`
	DateParamNames   []string          `json:"date_param_names,omitempty"`
	DateParamFormats map[string]string `json:"date_param_formats,omitempty"`
	DryRun           bool              `json:"dry_run,omitempty"`
	Params           map[string]string `json:"params,omitempty"`

	Unknown map[string]json.RawMessage `json:"-"`
}

// Overlay is a flat runtime parameter overlay file, the highest-precedence
// scope in a run.
type Overlay map[string]string
