package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"weld/internal/config"
	"weld/internal/discovery"
	"weld/internal/pyfront"
)

func newRequirementsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "List every third-party import the project references",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			set, err := discovery.Discover(context.Background(), discovery.Options{
				SourceRoots:     cfg.SourceRoots,
				ExcludePatterns: cfg.ExcludePatterns,
				Parser:          pyfront.LanguageParser{},
			})
			if err != nil {
				return err
			}
			classifier := &discovery.RootClassifier{Roots: cfg.SourceRoots, Stdlib: discovery.DefaultStdlib}

			seen := map[string]bool{}
			for _, id := range set.IDs() {
				m, _ := set.Get(id)
				for _, item := range m.Items {
					for _, path := range item.ImportedNames {
						if classifier.Classify(path) == discovery.ThirdParty {
							seen[path] = true
						}
					}
				}
			}
			names := make([]string, 0, len(seen))
			for n := range seen {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	return cmd
}
