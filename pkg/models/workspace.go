package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Workspace is the configuration context shared by every task in a chain.
// It is loaded once per invocation and passed by reference to each handler.
//
// Raw holds the persisted JSON document. Handlers read it through gjson
// paths; changes are persisted through the serialized config writer, never
// by mutating Raw from concurrent fan-out operations.
type Workspace struct {
	// Path is the location of the persisted workspace config file.
	Path string

	// Raw is the current JSON document.
	Raw []byte
}

// Get reads a gjson path from the workspace document.
func (w *Workspace) Get(path string) gjson.Result {
	return gjson.GetBytes(w.Raw, path)
}

// Strings reads a gjson path as a list of strings. Non-string elements
// are skipped.
func (w *Workspace) Strings(path string) []string {
	var out []string
	for _, r := range w.Get(path).Array() {
		if r.Type == gjson.String {
			out = append(out, r.String())
		}
	}
	return out
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// EscapeKey escapes gjson path metacharacters in a single map key so
// package names like vendor/app and dotted hostnames address one key.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}
