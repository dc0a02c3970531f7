package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// newInitCommand scaffolds a new bundler project: a weld.yaml and an
// entry module, the same shape sentra's internal/commands.InitCommand
// scaffolds for a new sentra-project (a project directory plus a
// starter source file), retargeted from `main.sn` to `main.py` and a
// generated weld.yaml instead of sentra's bare directory.
func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Scaffold a new bundler project",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "weld-project"
			if len(args) > 0 {
				name = args[0]
			}
			if err := os.MkdirAll(name, 0o755); err != nil {
				return fmt.Errorf("creating project directory: %w", err)
			}

			mainPath := filepath.Join(name, "main.py")
			if err := os.WriteFile(mainPath, []byte(mainTemplate), 0o644); err != nil {
				return fmt.Errorf("writing main.py: %w", err)
			}

			cfgPath := filepath.Join(name, "weld.yaml")
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o644); err != nil {
				return fmt.Errorf("writing weld.yaml: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("initialized"), name)
			return nil
		},
	}
	return cmd
}

const mainTemplate = `def main():
    print("hello from weld")


main()
`

const configTemplate = `entry: main
language_version: latest
source_roots:
  - .
exclude_patterns:
  - "**/test_*.py"
  - "**/__pycache__/**"
output_path: bundle.py
`
