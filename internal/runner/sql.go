package runner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// sqlEngine submits resolved SQL text to an external engine reachable over
// a Postgres-wire DSN (the reference deployment fronts Spark/Hive with a
// Thrift-to-Postgres-wire gateway, addressed via the task's engine_config
// map, e.g. {"dsn": "postgres://..."}).
type sqlEngine struct {
	engineName string
}

func (e sqlEngine) invoke(ctx context.Context, task TaskDescriptor) (Result, error) {
	start := time.Now()
	sqlText := strings.TrimSpace(task.ResolvedSQL)
	if sqlText == "" {
		return Result{
			Status:       StatusFailed,
			ExitCode:     2,
			ErrorMessage: fmt.Sprintf("%s: resolved SQL text is empty", e.engineName),
			DurationMS:   time.Since(start).Milliseconds(),
		}, nil
	}

	dsn := task.EngineConfig["dsn"]
	if dsn == "" {
		// No live engine configured: degrade to a dry validation so the
		// task runner is still exercised without a real cluster.
		return Result{
			Status:     StatusSucceeded,
			ExitCode:   0,
			Stdout:     fmt.Sprintf("%s: dry run, no dsn configured; validated non-empty SQL text", e.engineName),
			DurationMS: time.Since(start).Milliseconds(),
		}, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return Result{
			Status:       StatusFailed,
			ExitCode:     -1,
			ErrorMessage: err.Error(),
			DurationMS:   time.Since(start).Milliseconds(),
		}, nil
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, sqlText)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return Result{
			Status:       StatusFailed,
			ExitCode:     -1,
			ErrorMessage: err.Error(),
			DurationMS:   duration,
		}, nil
	}
	return Result{
		Status:     StatusSucceeded,
		ExitCode:   0,
		Stdout:     fmt.Sprintf("%s: statement executed", e.engineName),
		DurationMS: duration,
	}, nil
}

// SparkSQLRunner submits resolved SQL text to a Spark SQL engine.
type SparkSQLRunner struct{}

// Invoke implements Runner.
func (SparkSQLRunner) Invoke(ctx context.Context, task TaskDescriptor, _ ResolvedParams, _ string) (Result, error) {
	return sqlEngine{engineName: "spark-sql"}.invoke(ctx, task)
}

// HiveSQLRunner submits resolved SQL text to a Hive SQL engine.
type HiveSQLRunner struct{}

// Invoke implements Runner.
func (HiveSQLRunner) Invoke(ctx context.Context, task TaskDescriptor, _ ResolvedParams, _ string) (Result, error) {
	return sqlEngine{engineName: "hive-sql"}.invoke(ctx, task)
}
