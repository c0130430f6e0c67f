package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// registryHandle is the object handed to a plugin's register function. It
// exposes task(namespace, name, fn) and owns the mapping from registered
// Lua functions to core handlers.
type registryHandle struct {
	state    *lua.LState
	registry *core.Registry
	plugin   string
	defaults []string

	// mu serializes all calls into this plugin's Lua state. Chains run
	// tasks sequentially, but fan-out handlers from other tasks may share
	// the process with a plugin task.
	mu sync.Mutex
}

func newRegistryHandle(state *lua.LState, registry *core.Registry, plugin string, defaults []string) *registryHandle {
	return &registryHandle{state: state, registry: registry, plugin: plugin, defaults: defaults}
}

// table builds the Lua-visible registry object.
func (h *registryHandle) table() *lua.LTable {
	t := h.state.NewTable()
	h.state.SetField(t, "task", h.state.NewFunction(h.registerTask))
	return t
}

// registerTask implements registry.task(namespace, name, fn) from Lua.
func (h *registryHandle) registerTask(L *lua.LState) int {
	namespace := L.CheckString(1)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)

	h.registry.Register(namespace, name, h.handlerFor(namespace, name, fn))
	return 0
}

// handlerFor wraps a Lua task function as a core.Handler. The function
// receives a context table with the task identity, an option accessor,
// and the decoded workspace config. Its single return value becomes the
// task result; a raised error fails the task.
func (h *registryHandle) handlerFor(namespace, name string, fn *lua.LFunction) core.Handler {
	return func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		h.mu.Lock()
		defer h.mu.Unlock()

		taskCtx, err := h.taskContext(namespace, name, opts, ws)
		if err != nil {
			return nil, err
		}
		if err := h.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, taskCtx); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", h.plugin, err)
		}
		ret := h.state.Get(-1)
		h.state.Pop(1)
		return luaToGo(ret), nil
	}
}

// taskContext builds the single table argument passed to a Lua task.
func (h *registryHandle) taskContext(namespace, name string, opts core.Options, ws *models.Workspace) (*lua.LTable, error) {
	t := h.state.NewTable()
	h.state.SetField(t, "namespace", lua.LString(namespace))
	h.state.SetField(t, "name", lua.LString(name))
	h.state.SetField(t, "config_path", lua.LString(ws.Path))

	// Resolved target list, strict against the configured defaults, the
	// same resolution the built-in fan-out tasks use.
	raw := opts.OptionDefault("targets", "")
	targets := h.state.NewTable()
	for i, target := range core.ResolveTargets(raw, h.defaults, true) {
		targets.RawSetInt(i+1, lua.LString(target))
	}
	h.state.SetField(t, "targets", targets)

	var doc any
	if err := json.Unmarshal(ws.Raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding workspace config for plugin %s: %w", h.plugin, err)
	}
	h.state.SetField(t, "config", goToLua(h.state, doc))

	h.state.SetField(t, "option", h.state.NewFunction(func(L *lua.LState) int {
		optName := L.CheckString(1)
		if v, ok := opts.Option(optName); ok {
			L.Push(lua.LString(v))
			return 1
		}
		if L.GetTop() >= 2 {
			L.Push(L.Get(2))
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))

	return t, nil
}

// goToLua converts a JSON-decoded Go value into a Lua value.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, goToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for key, item := range val {
			t.RawSetString(key, goToLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua value into a plain Go value. Tables with
// contiguous integer keys starting at 1 become slices, other tables
// become maps. Functions and userdata are dropped.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return tableToGo(val)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) any {
	maxN := t.MaxN()
	if maxN > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == maxN {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, luaToGo(t.RawGetInt(i)))
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = luaToGo(v)
	})
	return m
}
