package commands

import (
	"fmt"

	"github.com/fatih/color"

	"weld/internal/diagnostics"
)

// formatDiagnostic renders one diagnostic as a colored one-liner, errors
// in red and warnings in yellow, the way sentra's own reporting tools
// color severity in terminal output.
func formatDiagnostic(d diagnostics.Diagnostic) string {
	label := color.YellowString("warning")
	if d.Severity == diagnostics.SeverityError {
		label = color.RedString("error")
	}
	if d.File == "" {
		return fmt.Sprintf("%s[%s]: %s", label, d.Rule, d.Message)
	}
	return fmt.Sprintf("%s[%s] %s:%d: %s", label, d.Rule, d.File, d.Line, d.Message)
}
