// Package plugin discovers Lua plugin modules in the workspace plugins
// directory and lets each extend the task registry before any task
// executes. A plugin is either a single name.lua file or a directory
// containing init.lua, and must define a global register(registry)
// function.
package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/buildmill/buildmill/internal/core"
)

// Loader discovers and loads plugins from one directory.
type Loader struct {
	dir      string
	defaults []string
	states   []*lua.LState
}

// NewLoader creates a Loader over the given plugins directory. The default
// target list resolves the targets field of each plugin task context.
func NewLoader(dir string, defaultTargets []string) *Loader {
	return &Loader{dir: dir, defaults: defaultTargets}
}

// LoadAll discovers plugin scripts in lexical order and calls each one's
// register entry point with a handle on the live registry. Any failure is
// fatal: the registry must never be left partially extended, so the first
// error aborts loading. A missing plugins directory means zero plugins.
//
// Loaded Lua states stay open for the process lifetime; registered task
// handlers call back into them.
func (l *Loader) LoadAll(registry *core.Registry) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading plugins directory %s: %v", core.ErrPluginRegistration, l.dir, err)
	}

	var loaded []string
	for _, entry := range entries {
		name, script, ok := l.scriptFor(entry)
		if !ok {
			continue
		}
		if err := l.loadScript(name, script, registry); err != nil {
			return nil, fmt.Errorf("%w: plugin %s: %v", core.ErrPluginRegistration, name, err)
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// scriptFor resolves a directory entry to a plugin name and entry script.
func (l *Loader) scriptFor(entry os.DirEntry) (name, script string, ok bool) {
	if entry.IsDir() {
		init := filepath.Join(l.dir, entry.Name(), "init.lua")
		if _, err := os.Stat(init); err != nil {
			return "", "", false
		}
		return entry.Name(), init, true
	}
	if filepath.Ext(entry.Name()) != ".lua" {
		return "", "", false
	}
	return strings.TrimSuffix(entry.Name(), ".lua"), filepath.Join(l.dir, entry.Name()), true
}

// loadScript runs one plugin script and invokes its register function.
func (l *Loader) loadScript(name, script string, registry *core.Registry) error {
	state := lua.NewState()
	if err := state.DoFile(script); err != nil {
		state.Close()
		return err
	}

	registerFn, ok := state.GetGlobal("register").(*lua.LFunction)
	if !ok {
		state.Close()
		return fmt.Errorf("script does not define a register function")
	}

	handle := newRegistryHandle(state, registry, name, l.defaults)
	if err := state.CallByParam(lua.P{Fn: registerFn, NRet: 0, Protect: true}, handle.table()); err != nil {
		state.Close()
		return err
	}

	l.states = append(l.states, state)
	return nil
}

// Close releases all loaded Lua states. Only meaningful in tests; in the
// CLI the states live until process exit.
func (l *Loader) Close() {
	for _, state := range l.states {
		state.Close()
	}
	l.states = nil
}
