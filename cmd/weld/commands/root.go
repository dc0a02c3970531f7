// Package commands implements weld's cobra subcommand tree: bundle,
// graph, diagnostics, requirements and init. Each command except init
// (which writes a default weld.yaml) loads weld.yaml via internal/config
// and drives internal/bundler or its
// constituent stages directly, printing results the way sentra's own
// cmd/sentra/commands package renders build output, but through cobra
// flags instead of a hand-parsed os.Args slice.
package commands

import (
	"github.com/spf13/cobra"
)

// configFlag is shared by every subcommand that needs a project config.
var configFlag string

// NewRootCommand builds the weld root command with every subcommand
// attached.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "weld",
		Short:         "Static source bundler for scripting-language projects",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "weld.yaml", "path to the project config file")

	root.AddCommand(
		newBundleCommand(),
		newGraphCommand(),
		newDiagnosticsCommand(),
		newRequirementsCommand(),
		newInitCommand(),
	)
	return root
}
