// Command flowctl is the entrypoint for running, backfilling, visualizing,
// and introspecting configuration-driven workflows.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/flowctl/flowctl/internal/cliapp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the body of main, pulled out so tests can exercise it without
// touching the real process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "flowctl: internal error: %v\n", r)
			os.Exit(cliapp.ExitInternalError)
		}
	}()
	return cliapp.Execute(context.Background(), args, stdout, stderr)
}
