// Package core contains the orchestration logic of buildmill: target
// resolution, the two-level task registry, the task chain runner, the
// default pipeline assembler, and the configuration layer shared by all
// task handlers.
package core

import "strings"

// ResolveTargets expands a comma-separated target option into an ordered
// list of target identifiers.
//
// When optionValue is empty or blank, defaults are returned unchanged.
// Entries are trimmed; blanks and duplicates are dropped, first occurrence
// wins. In strict mode entries outside the defaults set are dropped, and
// an empty filtered result falls back to defaults, so strict resolution
// always produces at least one target. In non-strict mode entries pass
// through verbatim.
func ResolveTargets(optionValue string, defaults []string, strict bool) []string {
	if strings.TrimSpace(optionValue) == "" {
		return defaults
	}

	allowed := make(map[string]struct{}, len(defaults))
	for _, d := range defaults {
		allowed[d] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, entry := range strings.Split(optionValue, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strict {
			if _, ok := allowed[entry]; !ok {
				continue
			}
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	if strict && len(out) == 0 {
		return defaults
	}
	return out
}
