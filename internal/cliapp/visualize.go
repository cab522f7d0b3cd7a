package cliapp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/dag"
	"github.com/flowctl/flowctl/internal/visualize"
)

func visualizeCommand(_ context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	fs := newFlagSet("visualize", stderr)
	cfgPath := fs.String("config", "", "path to the workflow JSON file")
	outputPath := fs.String("output", "", "write rendered output to this path instead of stdout")
	_ = fs.String("params", "", "path to a runtime parameter overlay JSON file (accepted, not required for structural rendering)")
	format := fs.String("format", "dot", "dot|json")
	if err := fs.Parse(args); err != nil {
		return ExitConfigInvalid, err
	}
	if *cfgPath == "" {
		return ExitConfigInvalid, &ExitError{Code: ExitConfigInvalid, Message: "visualize: --config is required"}
	}

	wf, err := config.LoadWorkflow(*cfgPath)
	if err != nil {
		return ExitConfigInvalid, err
	}

	taskIDs := make([]string, 0, len(wf.Tasks))
	for _, t := range wf.Tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	edges := make([]dag.EdgeSpec, 0, len(wf.Edges))
	for _, e := range wf.Edges {
		edges = append(edges, dag.EdgeSpec{From: e.From, To: e.To})
	}
	graph, err := dag.Build(taskIDs, edges)
	if err != nil {
		return ExitConfigInvalid, err
	}

	var rendered string
	switch *format {
	case "json":
		data, err := visualize.JSON(wf, graph)
		if err != nil {
			return ExitInternalError, err
		}
		rendered = string(data) + "\n"
	case "dot", "":
		rendered, err = visualize.DOT(wf, graph)
		if err != nil {
			return ExitInternalError, err
		}
	default:
		return ExitConfigInvalid, &ExitError{Code: ExitConfigInvalid, Message: fmt.Sprintf("visualize: unknown --format %q", *format)}
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(rendered), 0o644); err != nil {
			return ExitInternalError, err
		}
		return ExitSuccess, nil
	}
	fmt.Fprint(stdout, rendered)
	return ExitSuccess, nil
}
