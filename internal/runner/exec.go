package runner

import (
	"context"
	"os/exec"
	"runtime"
	"time"
)

// runCommand executes name with args under ctx, capturing bounded
// stdout/stderr, and translates the outcome into a Result. ctx cancellation
// terminates the child process. The engine cancels its run context for
// fail-fast only after a layer has drained, so RUNNING tasks are not
// hard-killed except on an external abort that cancels the caller's ctx.
func runCommand(ctx context.Context, workingDir string, name string, args ...string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workingDir

	stdout := newBoundedBuffer(maxCapturedBytes)
	stderr := newBoundedBuffer(maxCapturedBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	duration := time.Since(start).Milliseconds()

	result := Result{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}

	if err == nil {
		result.Status = StatusSucceeded
		result.ExitCode = 0
		return result, nil
	}

	result.Status = StatusFailed
	result.ErrorMessage = err.Error()
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	return result, nil
}

// shellInvocation returns the shell binary and the flag used to pass a
// command string, matching the host platform's convention.
func shellInvocation() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}
