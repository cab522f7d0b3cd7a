package cliapp

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/flowctl/flowctl/internal/apperr"
	"github.com/flowctl/flowctl/internal/backfill"
	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/dateexpr"
	"github.com/flowctl/flowctl/internal/engine"
	"github.com/flowctl/flowctl/internal/logging"
	"github.com/flowctl/flowctl/internal/runner"
	"github.com/flowctl/flowctl/internal/summary"
	"github.com/flowctl/flowctl/internal/watch"
)

func backfillCommand(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	fs := newFlagSet("backfill", stderr)
	cfgPath := fs.String("config", "", "path to the workflow JSON file")
	backfillParamsPath := fs.String("backfill_params", "", "path to the backfill specification JSON file")
	jobIDs := fs.String("job_ids", "", "comma-separated list of task IDs to restrict execution to")
	watchAddr := fs.String("watch-addr", "", "address to serve the live status websocket on")
	if err := fs.Parse(args); err != nil {
		return ExitConfigInvalid, err
	}
	if *cfgPath == "" || *backfillParamsPath == "" {
		return ExitConfigInvalid, &ExitError{Code: ExitConfigInvalid, Message: "backfill: --config and --backfill_params are required"}
	}

	logger := logging.New("info", "text", stdout)
	ctx = logging.WithLogger(ctx, logger)

	wf, err := config.LoadWorkflow(*cfgPath)
	if err != nil {
		return ExitConfigInvalid, err
	}
	spec, err := config.LoadBackfill(*backfillParamsPath)
	if err != nil {
		return ExitConfigInvalid, err
	}
	plan, err := backfill.Build(spec)
	if err != nil {
		return ExitConfigInvalid, err
	}

	if spec.DryRun {
		printDryRun(stdout, plan)
		return ExitSuccess, nil
	}

	eng := engine.New(runner.DefaultRegistry())
	eng.AlertManager = buildAlertManager(wf.Alert)

	var broadcaster *watch.Broadcaster
	if *watchAddr != "" {
		broadcaster = watch.NewBroadcaster()
		eng.Broadcaster = broadcaster
		server := startWatchServer(*watchAddr, broadcaster, logger)
		defer server.Close()
	}

	onlyTasks := splitCSV(*jobIDs)
	overall := true
	for _, point := range plan.Points {
		fmt.Fprintf(stdout, "--- backfill date point %s ---\n", dateexpr.Canonical(point.Date))
		outcome, err := eng.Run(ctx, wf, point.Overlay, onlyTasks)
		if err != nil {
			if classified, ok := apperr.As(err); ok && classified.Kind == apperr.KindConfig {
				return ExitConfigInvalid, err
			}
			return ExitInternalError, err
		}
		summary.Write(stdout, outcome)
		if !outcome.Success {
			overall = false
			if wf.FailFastOrDefault() {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	if !overall {
		return ExitTaskFailure, nil
	}
	return ExitSuccess, nil
}

func printDryRun(w io.Writer, plan *backfill.Plan) {
	fmt.Fprintln(w, "dry run: backfill plan (no tasks executed)")
	for _, point := range plan.Points {
		keys := make([]string, 0, len(point.Overlay))
		for k := range point.Overlay {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s:\n", dateexpr.Canonical(point.Date))
		for _, k := range keys {
			fmt.Fprintf(w, "  %s=%s\n", k, point.Overlay[k])
		}
	}
}
