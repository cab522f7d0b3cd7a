package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// knownTaskKeys/knownWorkflowKeys/knownBackfillKeys list the JSON field
// names handled by the typed struct fields, so loadUnknown can compute the
// side-channel of everything else.
var (
	knownTaskKeys = map[string]bool{
		"task_id": true, "type": true, "command": true, "script_path": true,
		"sql_file": true, "working_dir": true, "engine_config": true,
		"custom_command": true, "params": true,
	}
	knownWorkflowKeys = map[string]bool{
		"name": true, "description": true, "params": true, "tasks": true,
		"dependencies": true, "alert": true, "fail_fast": true,
	}
	knownBackfillKeys = map[string]bool{
		"start_date": true, "end_date": true, "date_granularity": true,
		"custom_dates": true, "date_param_name": true, "date_param_names": true,
		"date_param_formats": true, "dry_run": true, "params": true,
	}
)

func loadUnknown(raw map[string]json.RawMessage, known map[string]bool) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage)
	for k, v := range raw {
		if !known[k] {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler, capturing any field not
// modeled by Task into Unknown.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task(a)
	t.Unknown = loadUnknown(raw, knownTaskKeys)
	return nil
}

// MarshalJSON implements json.Marshaler, re-emitting Unknown alongside the
// modeled fields so round-tripping never drops caller data.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	base, err := json.Marshal(alias(t))
	if err != nil {
		return nil, err
	}
	return mergeUnknown(base, t.Unknown)
}

// UnmarshalJSON implements json.Unmarshaler for Workflow.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	type alias Workflow
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Workflow(a)
	w.Unknown = loadUnknown(raw, knownWorkflowKeys)
	return nil
}

// MarshalJSON implements json.Marshaler for Workflow.
func (w Workflow) MarshalJSON() ([]byte, error) {
	type alias Workflow
	base, err := json.Marshal(alias(w))
	if err != nil {
		return nil, err
	}
	return mergeUnknown(base, w.Unknown)
}

// UnmarshalJSON implements json.Unmarshaler for Backfill.
func (b *Backfill) UnmarshalJSON(data []byte) error {
	type alias Backfill
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Backfill(a)
	b.Unknown = loadUnknown(raw, knownBackfillKeys)
	return nil
}

// MarshalJSON implements json.Marshaler for Backfill.
func (b Backfill) MarshalJSON() ([]byte, error) {
	type alias Backfill
	base, err := json.Marshal(alias(b))
	if err != nil {
		return nil, err
	}
	return mergeUnknown(base, b.Unknown)
}

func mergeUnknown(base []byte, unknown map[string]json.RawMessage) ([]byte, error) {
	if len(unknown) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range unknown {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// LoadWorkflow reads and parses a workflow descriptor from path.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read workflow file: %w", err)
	}
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("config: parse workflow file %s: %w", path, err)
	}
	if w.Name == "" {
		return nil, fmt.Errorf("config: workflow file %s: missing required field %q", path, "name")
	}
	for i, task := range w.Tasks {
		if task.ID == "" {
			return nil, fmt.Errorf("config: workflow file %s: task at index %d missing %q", path, i, "task_id")
		}
		if !isKnownTaskType(task.Type) {
			return nil, fmt.Errorf("config: workflow file %s: task %q has unknown type %q", path, task.ID, task.Type)
		}
	}
	return &w, nil
}

func isKnownTaskType(t TaskType) bool {
	switch t {
	case TaskTypeShell, TaskTypePython, TaskTypePySpark, TaskTypeSparkSQL, TaskTypeHiveSQL:
		return true
	default:
		return false
	}
}

// LoadBackfill reads and parses a backfill specification from path.
func LoadBackfill(path string) (*Backfill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read backfill file: %w", err)
	}
	var b Backfill
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("config: parse backfill file %s: %w", path, err)
	}
	if b.StartDate == "" || b.EndDate == "" {
		if len(b.CustomDates) == 0 {
			return nil, fmt.Errorf("config: backfill file %s: requires start_date/end_date or custom_dates", path)
		}
	}
	return &b, nil
}

// LoadOverlay reads a flat runtime parameter overlay file. A missing path
// is not an error — an empty overlay is returned, since the overlay is
// always optional.
func LoadOverlay(path string) (Overlay, error) {
	if path == "" {
		return Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read overlay file: %w", err)
	}
	var o Overlay
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("config: parse overlay file %s: %w", path, err)
	}
	return o, nil
}
