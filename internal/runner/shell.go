package runner

import "context"

// ShellRunner executes a task's resolved command through the platform
// shell.
type ShellRunner struct{}

// Invoke implements Runner.
func (ShellRunner) Invoke(ctx context.Context, task TaskDescriptor, _ ResolvedParams, workingDir string) (Result, error) {
	command := task.ResolvedCommand
	if task.HasCustomCommand {
		command = task.ResolvedCustomCommand
	}
	shell, flag := shellInvocation()
	return runCommand(ctx, workingDir, shell, flag, command)
}
