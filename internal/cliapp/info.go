package cliapp

import (
	"context"
	"fmt"
	"io"

	"github.com/flowctl/flowctl/internal/config"
)

func infoCommand(_ context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	fs := newFlagSet("info", stderr)
	cfgPath := fs.String("config", "", "path to the workflow JSON file")
	if err := fs.Parse(args); err != nil {
		return ExitConfigInvalid, err
	}
	if *cfgPath == "" {
		return ExitConfigInvalid, &ExitError{Code: ExitConfigInvalid, Message: "info: --config is required"}
	}

	wf, err := config.LoadWorkflow(*cfgPath)
	if err != nil {
		return ExitConfigInvalid, err
	}

	fmt.Fprintf(stdout, "workflow: %s\n", wf.Name)
	if wf.Description != "" {
		fmt.Fprintf(stdout, "description: %s\n", wf.Description)
	}
	fmt.Fprintf(stdout, "fail_fast: %t\n", wf.FailFastOrDefault())
	fmt.Fprintf(stdout, "tasks: %d\n", len(wf.Tasks))
	for _, t := range wf.Tasks {
		fmt.Fprintf(stdout, "  - %s (%s)\n", t.ID, t.Type)
	}
	fmt.Fprintf(stdout, "dependencies: %d\n", len(wf.Edges))
	for _, e := range wf.Edges {
		fmt.Fprintf(stdout, "  - %s -> %s\n", e.From, e.To)
	}
	if wf.Alert != nil {
		transport := wf.Alert.Transport
		if transport == "" {
			transport = "log"
		}
		fmt.Fprintf(stdout, "alert: transport=%s endpoint=%s at_all=%t\n", transport, wf.Alert.Endpoint, wf.Alert.AtAll)
	} else {
		fmt.Fprintln(stdout, "alert: log (default)")
	}
	return ExitSuccess, nil
}
