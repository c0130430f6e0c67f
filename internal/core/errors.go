package core

import "errors"

// Error taxonomy for the orchestration core. Failures from delegated build
// and config operations are not wrapped in a sentinel; their cause
// propagates unchanged through the chain runner.
var (
	// ErrInvalidArgument reports a missing required option, a malformed
	// package name, or an empty task list.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownTask reports a task name not found in its namespace after
	// normalization.
	ErrUnknownTask = errors.New("unknown task")

	// ErrConfigLoad reports that the workspace configuration could not be
	// loaded. The chain aborts before any task runs.
	ErrConfigLoad = errors.New("configuration load failed")

	// ErrPluginRegistration reports that a plugin failed to load or
	// register. Startup aborts; the registry is never left partially
	// extended.
	ErrPluginRegistration = errors.New("plugin registration failed")
)
