package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weld/internal/bundler"
	"weld/internal/config"
	"weld/internal/pyfront"
)

func newBundleCommand() *cobra.Command {
	var sarifPath string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Resolve and emit the project as a single bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			sess := bundler.NewSession(cfg)
			result, err := sess.Run(context.Background(), pyfront.LanguageParser{}, pyfront.Printer{})
			if err != nil {
				for _, d := range sess.Diagnostics.Items() {
					fmt.Fprintln(cmd.ErrOrStderr(), formatDiagnostic(d))
				}
				return err
			}

			if cfg.OutputPath == "" || cfg.OutputPath == "-" {
				fmt.Fprint(cmd.OutOrStdout(), string(result.Bundle))
			} else {
				if err := os.WriteFile(cfg.OutputPath, result.Bundle, 0o644); err != nil {
					return fmt.Errorf("writing bundle to %s: %w", cfg.OutputPath, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("wrote"), cfg.OutputPath,
					humanize.Bytes(uint64(len(result.Bundle))), "from", len(result.ModuleIDs), "modules")
			}

			for _, d := range sess.Diagnostics.Items() {
				fmt.Fprintln(cmd.ErrOrStderr(), formatDiagnostic(d))
			}
			if sarifPath != "" {
				if err := sess.Diagnostics.WriteSARIF(sarifPath); err != nil {
					return fmt.Errorf("writing sarif report: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sarifPath, "sarif", "", "write diagnostics as a SARIF report to this path")
	return cmd
}
