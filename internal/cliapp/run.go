package cliapp

import (
	"context"
	"io"

	"github.com/flowctl/flowctl/internal/alert"
	"github.com/flowctl/flowctl/internal/apperr"
	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/engine"
	"github.com/flowctl/flowctl/internal/logging"
	"github.com/flowctl/flowctl/internal/runner"
	"github.com/flowctl/flowctl/internal/summary"
	"github.com/flowctl/flowctl/internal/watch"
)

func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	fs := newFlagSet("run", stderr)
	cfgPath := fs.String("config", "", "path to the workflow JSON file")
	paramsPath := fs.String("params", "", "path to a runtime parameter overlay JSON file")
	jobIDs := fs.String("job_ids", "", "comma-separated list of task IDs to restrict execution to")
	failFastFlag := fs.String("fail-fast", "", "override the workflow's fail_fast setting (true|false)")
	watchAddr := fs.String("watch-addr", "", "address to serve the live status websocket on, e.g. 127.0.0.1:9090")
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")
	logFormat := fs.String("log-format", "text", "text|json")
	if err := fs.Parse(args); err != nil {
		return ExitConfigInvalid, err
	}
	if *cfgPath == "" {
		return ExitConfigInvalid, &ExitError{Code: ExitConfigInvalid, Message: "run: --config is required"}
	}

	logger := logging.New(*logLevel, *logFormat, stdout)
	ctx = logging.WithLogger(ctx, logger)

	wf, err := config.LoadWorkflow(*cfgPath)
	if err != nil {
		return ExitConfigInvalid, err
	}
	if *failFastFlag != "" {
		v := *failFastFlag == "true"
		wf.FailFast = &v
	}

	overlay, err := config.LoadOverlay(*paramsPath)
	if err != nil {
		return ExitConfigInvalid, err
	}

	eng := engine.New(runner.DefaultRegistry())
	eng.AlertManager = buildAlertManager(wf.Alert)

	var broadcaster *watch.Broadcaster
	var server *watchServer
	if *watchAddr != "" {
		broadcaster = watch.NewBroadcaster()
		eng.Broadcaster = broadcaster
		server = startWatchServer(*watchAddr, broadcaster, logger)
		defer server.Close()
	}

	outcome, err := eng.Run(ctx, wf, overlay, splitCSV(*jobIDs))
	if err != nil {
		if classified, ok := apperr.As(err); ok && classified.Kind == apperr.KindConfig {
			return ExitConfigInvalid, err
		}
		return ExitInternalError, err
	}

	summary.Write(stdout, outcome)
	if !outcome.Success {
		return ExitTaskFailure, nil
	}
	return ExitSuccess, nil
}

func buildAlertManager(a *config.Alert) *alert.Manager {
	if a == nil || a.Transport == "" || a.Transport == "log" {
		return alert.NewManager(alert.LogSender{})
	}
	if a.Transport == "webhook" && a.Endpoint != "" {
		return alert.NewManager(alert.NewWebhookSender(a.Endpoint, a.AtAll))
	}
	return alert.NewManager(alert.LogSender{})
}
