package cliapp

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
}

func TestExecuteRunSucceeds(t *testing.T) {
	requireShell(t)
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"tasks": [{"task_id": "a", "type": "shell", "command": "exit 0"}]
	}`)

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"run", "--config", cfg}, &stdout, &stderr)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "SUCCEEDED")
}

func TestExecuteRunTaskFailureExitsOne(t *testing.T) {
	requireShell(t)
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"tasks": [{"task_id": "a", "type": "shell", "command": "exit 1"}]
	}`)

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"run", "--config", cfg}, &stdout, &stderr)
	assert.Equal(t, ExitTaskFailure, code)
}

func TestExecuteRunMissingConfigExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"run"}, &stdout, &stderr)
	assert.Equal(t, ExitConfigInvalid, code)
}

func TestExecuteRunBadConfigPathExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"run", "--config", "/nonexistent/path.json"}, &stdout, &stderr)
	assert.Equal(t, ExitConfigInvalid, code)
}

func TestExecuteUnknownSubcommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
	assert.Equal(t, ExitConfigInvalid, code)
}

func TestExecuteInfoPrintsWorkflowSummary(t *testing.T) {
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"description": "nightly pipeline",
		"tasks": [
			{"task_id": "a", "type": "shell", "command": "echo hi"},
			{"task_id": "b", "type": "python", "script_path": "x.py"}
		],
		"dependencies": [{"from": "a", "to": "b"}]
	}`)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"info", "--config", cfg}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	out := stdout.String()
	assert.Contains(t, out, "nightly pipeline")
	assert.Contains(t, out, "a (shell)")
	assert.Contains(t, out, "a -> b")
}

func TestExecuteVisualizeDOT(t *testing.T) {
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"tasks": [
			{"task_id": "a", "type": "shell", "command": "echo hi"},
			{"task_id": "b", "type": "shell", "command": "echo bye"}
		],
		"dependencies": [{"from": "a", "to": "b"}]
	}`)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"visualize", "--config", cfg}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), `digraph "etl"`)
}

func TestExecuteBackfillDryRun(t *testing.T) {
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"tasks": [{"task_id": "a", "type": "shell", "command": "exit 0"}]
	}`)
	spec := writeTemp(t, "backfill.json", `{
		"start_date": "2024-01-01",
		"end_date": "2024-01-02",
		"dry_run": true
	}`)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"backfill", "--config", cfg, "--backfill_params", spec}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "dry run")
	assert.Contains(t, stdout.String(), "2024-01-01")
}

func TestExecuteBackfillRunsEachDatePoint(t *testing.T) {
	requireShell(t)
	cfg := writeTemp(t, "wf.json", `{
		"name": "etl",
		"tasks": [{"task_id": "a", "type": "shell", "command": "exit 0"}]
	}`)
	spec := writeTemp(t, "backfill.json", `{
		"start_date": "2024-01-01",
		"end_date": "2024-01-02"
	}`)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"backfill", "--config", cfg, "--backfill_params", spec}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	out := stdout.String()
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-01-02")
}
