// Package internal provides the App struct that wires all buildmill
// components together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/buildmill/buildmill/internal/build"
	"github.com/buildmill/buildmill/internal/cli"
	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/internal/observability"
	"github.com/buildmill/buildmill/internal/plugin"
	"github.com/buildmill/buildmill/pkg/models"
)

// App holds all service dependencies of the buildmill pipeline.
type App struct {
	BasePath string
	Settings *models.Settings

	ConfigMgr core.ConfigurationManager
	Writer    *core.ConfigWriter
	Builder   *build.Builder

	Registry  *core.Registry
	Snapshot  core.Snapshot
	Plugins   *plugin.Loader
	Runner    *core.ChainRunner
	Assembler *core.Assembler

	EventLog observability.EventLog
}

// NewApp creates and wires all components. The registration phase runs to
// completion here: static table first, snapshot, then plugin discovery.
// A plugin failure is fatal; the CLI never sees a partially extended
// registry.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	app.ConfigMgr = core.NewConfigurationManager(basePath)
	settings, err := app.ConfigMgr.LoadSettings()
	if err != nil {
		return nil, err
	}
	app.Settings = settings

	// Non-fatal: the pipeline runs without an event log.
	eventLogPath := filepath.Join(basePath, ".buildmill_events.jsonl")
	if log, logErr := observability.NewJSONLEventLog(eventLogPath); logErr == nil {
		app.EventLog = log
	}

	app.Writer = core.NewConfigWriter()
	app.Builder = build.NewBuilder(basePath, settings)

	app.Registry = core.NewRegistry()
	app.Registry.SetOverwriteHook(func(namespace, name string) {
		logEvent(app.EventLog, observability.Event{
			Type:    observability.EventRegistryOverwrite,
			Message: "task handler overwritten",
			Data:    map[string]any{"namespace": namespace, "task": name},
		})
	})

	registerBuiltinTasks(app.Registry, app.Builder, app.Writer, settings)
	app.Snapshot = app.Registry.Snapshot()

	pluginsDir := settings.PluginsDir
	if !filepath.IsAbs(pluginsDir) {
		pluginsDir = filepath.Join(basePath, pluginsDir)
	}
	app.Plugins = plugin.NewLoader(pluginsDir, settings.DefaultTargets)
	loaded, err := app.Plugins.LoadAll(app.Registry)
	if err != nil {
		return nil, err
	}
	for _, name := range loaded {
		logEvent(app.EventLog, observability.Event{
			Type:    observability.EventPluginLoaded,
			Message: "plugin registered",
			Data:    map[string]any{"plugin": name},
		})
	}

	app.Runner = core.NewChainRunner(app.Registry, app.ConfigMgr, eventObserver{app.EventLog}, os.Stdout)
	app.Assembler = core.NewAssembler(app.Registry, app.Snapshot)

	// Hand the frozen registry and services to the CLI layer.
	cli.BasePath = basePath
	cli.Settings = settings
	cli.ConfigMgr = app.ConfigMgr
	cli.Builder = app.Builder
	cli.Registry = app.Registry
	cli.Snapshot = app.Snapshot
	cli.Runner = app.Runner
	cli.Assembler = app.Assembler
	cli.EventLog = app.EventLog

	return app, nil
}

// ResolveBasePath returns the workspace root: BUILDMILL_HOME when set,
// otherwise the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("BUILDMILL_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// eventObserver adapts the event log to the chain runner's observer.
type eventObserver struct {
	log observability.EventLog
}

func (o eventObserver) TaskStarted(runID, namespace, name string) {
	logEvent(o.log, observability.Event{
		Type:    observability.EventTaskStarted,
		Message: namespace + ":" + name,
		Data:    map[string]any{"run_id": runID, "namespace": namespace, "task": name},
	})
}

func (o eventObserver) TaskFinished(runID, namespace, name string, err error) {
	event := observability.Event{
		Type:    observability.EventTaskSucceeded,
		Message: namespace + ":" + name,
		Data:    map[string]any{"run_id": runID, "namespace": namespace, "task": name},
	}
	if err != nil {
		event.Type = observability.EventTaskFailed
		event.Data["error"] = err.Error()
	}
	logEvent(o.log, event)
}

// logEvent writes best-effort; observability never fails the pipeline.
func logEvent(log observability.EventLog, event observability.Event) {
	if log == nil {
		return
	}
	_ = log.Write(event)
}
