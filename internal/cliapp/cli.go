// Package cliapp implements the command-line surface: run, backfill,
// visualize, and info subcommands, their flag parsing, and exit codes.
package cliapp

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Exit codes, §4.9.
const (
	ExitSuccess       = 0
	ExitTaskFailure   = 1
	ExitConfigInvalid = 2
	ExitInternalError = 3
)

// ExitError carries a specific process exit code out of a subcommand.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Execute parses args (excluding the program name) and dispatches to the
// matching subcommand, returning the process exit code. Output/errors are
// written to stdout/stderr so tests can capture them without touching the
// real process streams.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: flowctl <run|backfill|visualize|info> [flags]")
		return ExitConfigInvalid
	}

	sub, rest := args[0], args[1:]
	var (
		code int
		err  error
	)
	switch sub {
	case "run":
		code, err = runCommand(ctx, rest, stdout, stderr)
	case "backfill":
		code, err = backfillCommand(ctx, rest, stdout, stderr)
	case "visualize":
		code, err = visualizeCommand(ctx, rest, stdout, stderr)
	case "info":
		code, err = infoCommand(ctx, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "flowctl: unknown subcommand %q\n", sub)
		return ExitConfigInvalid
	}

	if err != nil {
		fmt.Fprintf(stderr, "flowctl %s: %v\n", sub, err)
	}
	return code
}

func splitCSV(s string) map[string]bool {
	out := map[string]bool{}
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out[part] = true
		}
	}
	return out
}

func newFlagSet(name string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}
