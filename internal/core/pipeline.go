package core

import (
	"fmt"
	"strings"
)

// BuildNamespace groups the build pipeline tasks.
const BuildNamespace = "build"

// CanonicalBuildStages is the fixed order of the default build pipeline.
var CanonicalBuildStages = []string{"config", "core", "themes", "manifest", "packages"}

// Assembler computes the default build pipeline: the canonical stages
// followed by every build task contributed by plugins after the snapshot
// was captured.
type Assembler struct {
	registry *Registry
	snapshot Snapshot
}

// NewAssembler creates an Assembler over the given registry and the
// snapshot captured before plugin loading.
func NewAssembler(registry *Registry, snapshot Snapshot) *Assembler {
	return &Assembler{registry: registry, snapshot: snapshot}
}

// DefaultBuildStages returns the ordered task names of the full build.
// Plugin-contributed build stages run after the canonical ones, sorted by
// name for determinism and deduplicated against the canonical set.
func (a *Assembler) DefaultBuildStages() []string {
	stages := append([]string(nil), CanonicalBuildStages...)

	canonical := make(map[string]struct{}, len(CanonicalBuildStages))
	for _, s := range CanonicalBuildStages {
		canonical[s] = struct{}{}
	}

	// Names() is already sorted.
	for _, name := range a.registry.Names(BuildNamespace) {
		if a.snapshot.Has(BuildNamespace, name) {
			continue
		}
		if _, ok := canonical[name]; ok {
			continue
		}
		stages = append(stages, name)
	}
	return stages
}

// DefaultBuildTaskList returns the default pipeline as a comma-separated
// task list suitable for the chain runner.
func (a *Assembler) DefaultBuildTaskList() string {
	return strings.Join(a.DefaultBuildStages(), ",")
}

// ValidatePackageName checks the required name option of a single-package
// build. A valid name is qualified with a namespace separator, e.g.
// vendor/app. Validation happens before any build work starts.
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: package name option is required", ErrInvalidArgument)
	}
	if !strings.Contains(name, "/") {
		return fmt.Errorf("%w: package name %q must be qualified as vendor/app", ErrInvalidArgument, name)
	}
	return nil
}
