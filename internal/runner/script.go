package runner

import "context"

// PythonRunner invokes a task's script_path with python3, passing resolved
// parameters as "--key=value" flags, unless a custom_command overrides the
// invocation entirely.
type PythonRunner struct{}

// Invoke implements Runner.
func (PythonRunner) Invoke(ctx context.Context, task TaskDescriptor, params ResolvedParams, workingDir string) (Result, error) {
	if task.HasCustomCommand {
		shell, flag := shellInvocation()
		return runCommand(ctx, workingDir, shell, flag, task.ResolvedCustomCommand)
	}
	args := append([]string{task.ScriptPath}, params.Args()...)
	return runCommand(ctx, workingDir, "python3", args...)
}

// PySparkRunner invokes a task's script_path via spark-submit, passing
// resolved parameters as "--key=value" flags, unless a custom_command
// overrides the invocation entirely.
type PySparkRunner struct{}

// Invoke implements Runner.
func (PySparkRunner) Invoke(ctx context.Context, task TaskDescriptor, params ResolvedParams, workingDir string) (Result, error) {
	if task.HasCustomCommand {
		shell, flag := shellInvocation()
		return runCommand(ctx, workingDir, shell, flag, task.ResolvedCustomCommand)
	}
	args := append([]string{task.ScriptPath}, params.Args()...)
	return runCommand(ctx, workingDir, "spark-submit", args...)
}
