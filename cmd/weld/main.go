// Command weld is the bundler's CLI: it wires weld.yaml, the language
// front end (internal/pyfront) and the bundler pipeline (internal/bundler)
// together behind a github.com/spf13/cobra root command, replacing
// sentra's hand-rolled os.Args/commandAliases dispatch (cmd/sentra/main.go)
// with a conventional subcommand tree.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"weld/cmd/weld/commands"
)

// version is stamped at release time; left as a constant here the way
// sentra's own cmd/sentra/main.go pins its VERSION.
const version = "0.1.0"

func main() {
	root := commands.NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
