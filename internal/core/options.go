package core

// Options provides read access to named string options. The core never
// parses raw argv; the CLI layer hands each invocation an accessor.
type Options interface {
	// Option returns the value of the named option and whether it was set.
	Option(name string) (string, bool)

	// OptionDefault returns the value of the named option, or def when the
	// option was not set.
	OptionDefault(name, def string) string
}

// MapOptions is an Options implementation backed by a plain map. It is
// used by tests and by internally assembled invocations such as the serve
// watcher's rebuilds.
type MapOptions map[string]string

// Option returns the mapped value and whether the key is present.
func (m MapOptions) Option(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// OptionDefault returns the mapped value, or def when the key is absent.
func (m MapOptions) OptionDefault(name, def string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return def
}
