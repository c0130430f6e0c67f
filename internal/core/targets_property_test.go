package core

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Strict resolution never produces an empty list and only entries from the
// defaults set.
func TestProperty_StrictResolutionSubsetAndNonEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		defaults := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z][a-z0-9-]{0,8}`), 1, 5, rapid.ID[string],
		).Draw(rt, "defaults")
		entries := rapid.SliceOfN(
			rapid.StringMatching(`[a-z0-9-]{0,8}`), 0, 8,
		).Draw(rt, "entries")

		got := ResolveTargets(strings.Join(entries, ","), defaults, true)

		if len(got) == 0 {
			t.Fatalf("strict resolution produced an empty list for %v", entries)
		}
		allowed := make(map[string]bool, len(defaults))
		for _, d := range defaults {
			allowed[d] = true
		}
		for _, target := range got {
			if !allowed[target] {
				t.Fatalf("strict resolution leaked %q, not in defaults %v", target, defaults)
			}
		}
	})
}

// Non-strict resolution preserves the order of first occurrences and never
// returns blanks or duplicates.
func TestProperty_NonStrictPreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.SliceOfN(
			rapid.StringMatching(`[ ]{0,2}[a-z0-9-]{0,6}[ ]{0,2}`), 0, 10,
		).Draw(rt, "entries")

		optionValue := strings.Join(entries, ",")
		if strings.TrimSpace(optionValue) == "" {
			// Blank option means "use defaults"; covered elsewhere.
			return
		}

		got := ResolveTargets(optionValue, []string{"dist"}, false)

		seen := make(map[string]bool)
		cursor := 0
		for _, entry := range entries {
			trimmed := strings.TrimSpace(entry)
			if trimmed == "" || seen[trimmed] {
				continue
			}
			seen[trimmed] = true
			if cursor >= len(got) || got[cursor] != trimmed {
				t.Fatalf("expected %q at position %d of %v", trimmed, cursor, got)
			}
			cursor++
		}
		if cursor != len(got) {
			t.Fatalf("unexpected extra entries in %v", got[cursor:])
		}
	})
}
