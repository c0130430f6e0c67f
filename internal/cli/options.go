package cli

import "github.com/spf13/cobra"

// flagOptions adapts a command's flag set to the core.Options accessor.
// Only flags the user actually set count as present, so task handlers can
// distinguish "absent" from "set to the flag default".
type flagOptions struct {
	cmd *cobra.Command
}

func (o flagOptions) Option(name string) (string, bool) {
	f := o.cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

func (o flagOptions) OptionDefault(name, def string) string {
	if v, ok := o.Option(name); ok {
		return v
	}
	return def
}
