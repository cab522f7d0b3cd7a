// Package engine orchestrates a single run of a workflow's DAG: layered
// scheduling, parameter resolution, task dispatch, fail-fast cancellation,
// and alert emission.
package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/flowctl/flowctl/internal/alert"
	"github.com/flowctl/flowctl/internal/apperr"
	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/dag"
	"github.com/flowctl/flowctl/internal/logging"
	"github.com/flowctl/flowctl/internal/params"
	"github.com/flowctl/flowctl/internal/runner"
	"golang.org/x/sync/semaphore"
)

// StatusEvent is a single task state transition, published to an optional
// StatusBroadcaster as it is recorded.
type StatusEvent struct {
	TaskID    string
	State     State
	Timestamp time.Time
}

// StatusBroadcaster receives best-effort state-transition notifications. A
// slow or absent subscriber must never block Publish; internal/watch
// implements this with a bounded, dropping channel.
type StatusBroadcaster interface {
	Publish(event StatusEvent)
}

// Engine runs workflows against a task-runner registry.
type Engine struct {
	Registry     runner.Registry
	Workers      int // per-layer concurrency ceiling; <=0 means runtime.NumCPU()
	AlertManager *alert.Manager
	Broadcaster  StatusBroadcaster // optional
	RefDate      time.Time         // zero means time.Now(), overridden by ref_date overlay key
}

// New returns an Engine wired with reg and a log-transport AlertManager;
// callers may replace AlertManager with one built from the workflow's alert
// config.
func New(reg runner.Registry) *Engine {
	return &Engine{Registry: reg, AlertManager: alert.NewManager(alert.LogSender{})}
}

// Run executes wf once. overlay is the runtime parameter override scope
// (highest precedence). onlyTasks, if non-empty, restricts execution to
// the named task IDs; every other task is marked SKIPPED before
// scheduling begins.
func (e *Engine) Run(ctx context.Context, wf *config.Workflow, overlay map[string]string, onlyTasks map[string]bool) (*WorkflowOutcome, error) {
	logger := logging.FromContext(ctx)

	taskIDs := make([]string, 0, len(wf.Tasks))
	tasksByID := make(map[string]config.Task, len(wf.Tasks))
	for _, t := range wf.Tasks {
		taskIDs = append(taskIDs, t.ID)
		tasksByID[t.ID] = t
	}
	edges := make([]dag.EdgeSpec, 0, len(wf.Edges))
	for _, edge := range wf.Edges {
		edges = append(edges, dag.EdgeSpec{From: edge.From, To: edge.To})
	}

	graph, err := dag.Build(taskIDs, edges)
	if err != nil {
		return nil, apperr.Config(fmt.Errorf("engine: invalid workflow %q: %w", wf.Name, err))
	}

	reg := newRegistry(taskIDs)

	if len(onlyTasks) > 0 {
		for _, id := range taskIDs {
			if !onlyTasks[id] {
				reg.set(id, StateSkipped)
				logger.WarnContext(ctx, "engine: task excluded by job_ids filter, treated as satisfied for dependents",
					"task_id", id, "workflow", wf.Name)
			}
		}
	}

	alertMgr := e.AlertManager
	if alertMgr == nil {
		alertMgr = alert.NewManager(alert.LogSender{})
	}
	alertMgr.Emit(ctx, alert.Event{Kind: alert.KindWorkflowStart, Workflow: wf.Name, State: string(StateRunning)})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := semaphore.NewWeighted(int64(workers))

	refDate := e.RefDate
	if raw, ok := overlay["ref_date"]; ok {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			refDate = parsed
		} else {
			logger.WarnContext(ctx, "engine: invalid ref_date override, ignoring", "ref_date", raw)
		}
	}
	if refDate.IsZero() {
		refDate = time.Now()
	}
	resolver := params.NewResolver(refDate)

	for layer := 0; layer <= graph.MaxLayer(); layer++ {
		ids := graph.NodesAtLayer(layer)
		var wg sync.WaitGroup

		for _, id := range ids {
			if reg.get(id) != StatePending {
				continue
			}
			deps, _ := graph.Dependencies(id)
			if blocked := firstBlockingDependency(reg, deps); blocked != "" {
				reg.set(id, StateCancelled)
				e.publish(id, StateCancelled)
				logger.WarnContext(ctx, "engine: cancelling task, upstream did not succeed",
					"task_id", id, "blocked_by", blocked)
				continue
			}

			wg.Add(1)
			go func(taskID string) {
				defer wg.Done()
				if err := sem.Acquire(runCtx, 1); err != nil {
					reg.set(taskID, StateCancelled)
					e.publish(taskID, StateCancelled)
					return
				}
				defer sem.Release(1)
				e.dispatch(runCtx, wf, tasksByID[taskID], overlay, resolver, reg, alertMgr)
			}(id)
		}
		wg.Wait()

		if wf.FailFastOrDefault() && reg.anyFailed() {
			cancel()
			for _, id := range taskIDs {
				if reg.get(id) == StatePending {
					reg.set(id, StateCancelled)
					e.publish(id, StateCancelled)
				}
			}
			break
		}
	}

	results := reg.snapshot()
	outcome := &WorkflowOutcome{WorkflowName: wf.Name, Tasks: results, Success: true}
	for _, res := range results {
		if res.State != StateSucceeded && res.State != StateSkipped {
			outcome.Success = false
			break
		}
	}

	finalKind := alert.KindWorkflowSucceeded
	if !outcome.Success {
		finalKind = alert.KindWorkflowFailed
	}
	alertMgr.Emit(ctx, alert.Event{Kind: finalKind, Workflow: wf.Name, State: successState(outcome.Success)})

	return outcome, nil
}

func successState(success bool) string {
	if success {
		return string(StateSucceeded)
	}
	return string(StateFailed)
}

// firstBlockingDependency returns the ID of the first dependency (in sorted
// order, for determinism) that is FAILED or CANCELLED, or "" if none is.
func firstBlockingDependency(reg *registry, deps []string) string {
	sorted := append([]string(nil), deps...)
	sort.Strings(sorted)
	for _, d := range sorted {
		switch reg.get(d) {
		case StateFailed, StateCancelled:
			return d
		}
	}
	return ""
}

func (e *Engine) publish(taskID string, state State) {
	if e.Broadcaster == nil {
		return
	}
	e.Broadcaster.Publish(StatusEvent{TaskID: taskID, State: state, Timestamp: time.Now()})
}

// dispatch resolves task's effective parameters, invokes its runner, and
// records the outcome.
func (e *Engine) dispatch(ctx context.Context, wf *config.Workflow, task config.Task, overlay map[string]string, resolver *params.Resolver, reg *registry, alertMgr *alert.Manager) {
	reg.set(task.ID, StateRunning)
	e.publish(task.ID, StateRunning)
	start := time.Now()

	store := params.New(overlay, task.Params, wf.Params)

	resolvedParamValues := make(map[string]string, len(task.Params))
	order := make([]string, 0, len(task.Params))
	for k := range task.Params {
		order = append(order, k)
	}
	sort.Strings(order) // JSON objects carry no declared order; sorted keys give deterministic flag order
	for _, k := range order {
		resolvedParamValues[k] = resolver.Resolve(ctx, task.Params[k], store)
	}
	resolvedParams := runner.NewResolvedParams(order, resolvedParamValues)

	extendedStore := store.WithNested("params", resolvedParamValues).WithOverlay(map[string]string{"script_path": task.ScriptPath})

	descriptor := runner.TaskDescriptor{
		ID:           task.ID,
		Type:         task.Type,
		ScriptPath:   task.ScriptPath,
		WorkingDir:   resolver.Resolve(ctx, task.WorkingDir, store),
		EngineConfig: task.EngineConf,
	}
	if task.CustomCmd != "" {
		descriptor.HasCustomCommand = true
		descriptor.ResolvedCustomCommand = resolver.Resolve(ctx, task.CustomCmd, extendedStore)
	}
	switch task.Type {
	case config.TaskTypeShell:
		descriptor.ResolvedCommand = resolver.Resolve(ctx, task.Command, store)
	case config.TaskTypeSparkSQL, config.TaskTypeHiveSQL:
		raw, err := os.ReadFile(task.SQLFile)
		if err != nil {
			e.recordFailure(ctx, task.ID, start, fmt.Sprintf("read sql_file: %v", err), reg, alertMgr, wf.Name)
			return
		}
		descriptor.ResolvedSQL = resolver.Resolve(ctx, string(raw), store)
	}

	run, ok := e.Registry.Lookup(task.Type)
	if !ok {
		e.recordFailure(ctx, task.ID, start, fmt.Sprintf("no runner registered for task type %q", task.Type), reg, alertMgr, wf.Name)
		return
	}

	result, err := run.Invoke(ctx, descriptor, resolvedParams, descriptor.WorkingDir)
	if err != nil {
		e.recordFailure(ctx, task.ID, start, err.Error(), reg, alertMgr, wf.Name)
		return
	}

	end := time.Now()
	state := StateSucceeded
	if result.Status == runner.StatusFailed {
		state = StateFailed
	}
	reg.recordResult(task.ID, TaskResult{
		State:        state,
		Start:        start,
		End:          end,
		ExitCode:     result.ExitCode,
		Log:          result.Stdout + result.Stderr,
		ErrorMessage: result.ErrorMessage,
	})
	e.publish(task.ID, state)

	kind := alert.KindTaskSucceeded
	if state == StateFailed {
		kind = alert.KindTaskFailed
	}
	alertMgr.Emit(ctx, alert.Event{Kind: kind, Workflow: wf.Name, TaskID: task.ID, State: string(state), Error: result.ErrorMessage})
}

func (e *Engine) recordFailure(ctx context.Context, taskID string, start time.Time, message string, reg *registry, alertMgr *alert.Manager, workflowName string) {
	reg.recordResult(taskID, TaskResult{
		State:        StateFailed,
		Start:        start,
		End:          time.Now(),
		ExitCode:     -1,
		ErrorMessage: message,
	})
	e.publish(taskID, StateFailed)
	alertMgr.Emit(ctx, alert.Event{Kind: alert.KindTaskFailed, Workflow: workflowName, TaskID: taskID, State: string(StateFailed), Error: message})
}
