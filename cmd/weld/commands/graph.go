package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weld/internal/config"
)

func newGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the module dependency graph and each module's bundling strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			g, set, err := loadGraph(context.Background(), cfg)
			if err != nil {
				return err
			}
			order := g.TopologicalSort()
			strategies := classifyAll(g, order, g.Entry, set)

			out := cmd.OutOrStdout()
			for _, id := range order {
				marker := color.CyanString(strategies[id].String())
				fmt.Fprintf(out, "%-40s %s\n", id, marker)
				for _, dep := range g.Dependencies(id) {
					fmt.Fprintf(out, "  -> %s\n", dep)
				}
			}
			return nil
		},
	}
	return cmd
}
