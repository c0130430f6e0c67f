package core

import (
	"context"
	"sort"
	"sync"

	"github.com/buildmill/buildmill/pkg/models"
)

// Handler executes one named task against the shared workspace
// configuration. The returned value is task-defined; the default build
// pipeline ignores it.
type Handler func(ctx context.Context, opts Options, ws *models.Workspace) (any, error)

// Registry maps namespace to task name to handler. It is populated during
// the registration phase (static table first, then discovered plugins) and
// treated as read-only once task execution begins. The lock only protects
// against concurrent lookups from fan-out operations; registration must
// never run concurrently with execution.
type Registry struct {
	mu          sync.RWMutex
	tasks       map[string]map[string]Handler
	onOverwrite func(namespace, name string)
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]map[string]Handler)}
}

// SetOverwriteHook installs a callback invoked whenever Register replaces
// an already-registered handler. Overwrites are allowed (last registration
// wins) but surfaced, since a plugin silently shadowing a canonical task
// is almost always a mistake.
func (r *Registry) SetOverwriteHook(fn func(namespace, name string)) {
	r.onOverwrite = fn
}

// Register inserts or overwrites the handler for (namespace, name).
func (r *Registry) Register(namespace, name string, h Handler) {
	r.mu.Lock()
	ns, ok := r.tasks[namespace]
	if !ok {
		ns = make(map[string]Handler)
		r.tasks[namespace] = ns
	}
	_, existed := ns[name]
	ns[name] = h
	r.mu.Unlock()

	if existed && r.onOverwrite != nil {
		r.onOverwrite(namespace, name)
	}
}

// Lookup returns the handler registered for (namespace, name).
func (r *Registry) Lookup(namespace, name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.tasks[namespace][name]
	return h, ok
}

// Namespaces returns all registered namespaces, sorted.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tasks))
	for ns := range r.tasks {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Names returns all task names registered under a namespace, sorted.
func (r *Registry) Names(namespace string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns := r.tasks[namespace]
	out := make([]string, 0, len(ns))
	for name := range ns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshot records which task names existed per namespace at capture time.
// It is taken immediately after static registration and before plugin
// loading, and is used solely to compute plugin-added build stages.
type Snapshot map[string]map[string]struct{}

// Snapshot captures the current registry contents as an immutable record.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(Snapshot, len(r.tasks))
	for ns, names := range r.tasks {
		set := make(map[string]struct{}, len(names))
		for name := range names {
			set[name] = struct{}{}
		}
		snap[ns] = set
	}
	return snap
}

// Has reports whether (namespace, name) existed when the snapshot was
// captured.
func (s Snapshot) Has(namespace, name string) bool {
	_, ok := s[namespace][name]
	return ok
}
