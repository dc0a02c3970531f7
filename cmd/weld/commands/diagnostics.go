package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"weld/internal/config"
	"weld/internal/diagnostics"
	"weld/internal/graph"
)

func newDiagnosticsCommand() *cobra.Command {
	var sarifPath string
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Report import cycles and other structural issues without emitting a bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			g, _, err := loadGraph(context.Background(), cfg)
			if err != nil {
				return err
			}
			collector := diagnostics.NewCollector()
			for _, scc := range g.StronglyConnectedComponents() {
				kind := g.ClassifyCycle(scc)
				switch kind {
				case graph.CycleNotACycle:
					continue
				case graph.CycleUnresolvable:
					collector.Errorf("unresolvable-cycle", string(scc[0]), 0,
						"modules %v form an import cycle that reads a module-level constant across the cycle boundary", scc)
				default:
					collector.Warnf("wrapper-cycle", string(scc[0]), 0,
						"modules %v form an import cycle resolved via deferred wrapper initialization", scc)
				}
			}

			for _, d := range collector.Items() {
				fmt.Fprintln(cmd.OutOrStdout(), formatDiagnostic(d))
			}
			if sarifPath != "" {
				if err := collector.WriteSARIF(sarifPath); err != nil {
					return fmt.Errorf("writing sarif report: %w", err)
				}
			}
			if collector.HasErrors() {
				return fmt.Errorf("project has unresolvable structural issues")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sarifPath, "sarif", "", "write the report as SARIF to this path")
	return cmd
}
