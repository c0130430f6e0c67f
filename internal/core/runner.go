package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// TaskObserver receives progress notifications from the chain runner.
// Notifications are for progress reporting only; observer failures must
// never fail a chain.
type TaskObserver interface {
	TaskStarted(runID, namespace, name string)
	TaskFinished(runID, namespace, name string, err error)
}

// ChainRunner executes an ordered, comma-separated list of task names
// within one namespace against a single shared workspace configuration
// load. Tasks run strictly in order; the first failure aborts the rest.
type ChainRunner struct {
	registry *Registry
	config   ConfigurationManager
	observer TaskObserver
	out      io.Writer
}

// NewChainRunner creates a ChainRunner. observer may be nil; out receives
// one progress line per task.
func NewChainRunner(registry *Registry, config ConfigurationManager, observer TaskObserver, out io.Writer) *ChainRunner {
	return &ChainRunner{
		registry: registry,
		config:   config,
		observer: observer,
		out:      out,
	}
}

// Run executes the named tasks sequentially and returns their results in
// order. The workspace configuration is loaded exactly once and shared by
// every task in the chain. An empty task list fails before the
// configuration is touched; an unknown task name fails the chain as soon
// as it is reached.
func (r *ChainRunner) Run(ctx context.Context, namespace, taskList string, opts Options) ([]any, error) {
	names := SplitTaskList(taskList)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no tasks given for namespace %q", ErrInvalidArgument, namespace)
	}

	ws, err := r.config.LoadWorkspace()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	runID := uuid.NewString()
	results := make([]any, 0, len(names))
	for _, raw := range names {
		name := NormalizeTaskName(raw)
		handler, ok := r.registry.Lookup(namespace, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s:%s", ErrUnknownTask, namespace, raw)
		}

		if r.out != nil {
			fmt.Fprintf(r.out, "Running %s:%s\n", namespace, name)
		}
		if r.observer != nil {
			r.observer.TaskStarted(runID, namespace, name)
		}

		result, err := handler(ctx, opts, ws)

		if r.observer != nil {
			r.observer.TaskFinished(runID, namespace, name, err)
		}
		if err != nil {
			return nil, fmt.Errorf("task %s:%s: %w", namespace, name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// SplitTaskList splits a comma-separated task list into trimmed entries,
// dropping blanks.
func SplitTaskList(taskList string) []string {
	var out []string
	for _, entry := range strings.Split(taskList, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// NormalizeTaskName maps the user-facing hyphenated spelling of a task to
// its registered name by replacing the first hyphen with an underscore.
// Matching is case-sensitive and exact.
func NormalizeTaskName(name string) string {
	return strings.Replace(name, "-", "_", 1)
}
