package runner

import (
	"context"
	"runtime"
	"testing"

	"github.com/flowctl/flowctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedParamsArgsPreservesOrder(t *testing.T) {
	p := NewResolvedParams([]string{"b", "a"}, map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, []string{"--b=2", "--a=1"}, p.Args())
}

func TestResolvedParamsArgsSkipsMissingKeys(t *testing.T) {
	p := NewResolvedParams([]string{"a", "missing"}, map[string]string{"a": "1"})
	assert.Equal(t, []string{"--a=1"}, p.Args())
}

func TestShellRunnerSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	r := ShellRunner{}
	task := TaskDescriptor{ID: "t1", Type: config.TaskTypeShell, ResolvedCommand: "echo hello"}
	result, err := r.Invoke(context.Background(), task, ResolvedParams{}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "hello")
}

func TestShellRunnerReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	r := ShellRunner{}
	task := TaskDescriptor{ID: "t1", Type: config.TaskTypeShell, ResolvedCommand: "exit 7"}
	result, err := r.Invoke(context.Background(), task, ResolvedParams{}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 7, result.ExitCode)
}

func TestShellRunnerHonorsCustomCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell assumed")
	}
	r := ShellRunner{}
	task := TaskDescriptor{
		ID: "t1", Type: config.TaskTypeShell,
		ResolvedCommand:       "echo default",
		HasCustomCommand:      true,
		ResolvedCustomCommand: "echo custom",
	}
	result, err := r.Invoke(context.Background(), task, ResolvedParams{}, "")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "custom")
}

func TestSQLRunnerDryRunWithoutDSN(t *testing.T) {
	r := SparkSQLRunner{}
	task := TaskDescriptor{ID: "t1", Type: config.TaskTypeSparkSQL, ResolvedSQL: "SELECT 1"}
	result, err := r.Invoke(context.Background(), task, ResolvedParams{}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Contains(t, result.Stdout, "dry run")
}

func TestSQLRunnerRejectsEmptyText(t *testing.T) {
	r := HiveSQLRunner{}
	task := TaskDescriptor{ID: "t1", Type: config.TaskTypeHiveSQL, ResolvedSQL: "   "}
	result, err := r.Invoke(context.Background(), task, ResolvedParams{}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
}

func TestDefaultRegistryCoversAllTaskTypes(t *testing.T) {
	reg := DefaultRegistry()
	for _, tt := range []config.TaskType{
		config.TaskTypeShell, config.TaskTypePython, config.TaskTypePySpark,
		config.TaskTypeSparkSQL, config.TaskTypeHiveSQL,
	} {
		_, ok := reg.Lookup(tt)
		assert.True(t, ok, "missing runner for %s", tt)
	}
}
