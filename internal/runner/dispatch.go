package runner

import "github.com/flowctl/flowctl/internal/config"

// Registry is a type-keyed dispatch table, built once at startup and
// consulted by the engine for every task it schedules.
type Registry map[config.TaskType]Runner

// DefaultRegistry returns the dispatch table wired with every concrete
// runner this repository ships.
func DefaultRegistry() Registry {
	return Registry{
		config.TaskTypeShell:    ShellRunner{},
		config.TaskTypePython:   PythonRunner{},
		config.TaskTypePySpark:  PySparkRunner{},
		config.TaskTypeSparkSQL: SparkSQLRunner{},
		config.TaskTypeHiveSQL:  HiveSQLRunner{},
	}
}

// Lookup returns the Runner registered for t.
func (r Registry) Lookup(t config.TaskType) (Runner, bool) {
	runner, ok := r[t]
	return runner, ok
}
