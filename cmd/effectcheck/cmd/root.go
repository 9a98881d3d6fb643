// Package cmd is the effectcheck command tree, grounded on the
// teacher's cmd/dwscript/cmd package: the same rootCmd/Execute/init
// scaffolding, generalized from "DWScript interpreter and compiler" to
// "checked-exceptions configuration resolver."
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "effectcheck",
	Short: "Checked-exceptions configuration resolver",
	Long: `effectcheck is a static checker that verifies a checked-exceptions
discipline on top of a host language's safe/neverThrows/Throws<E>/
ThrowsError<E> annotations.

Given a serialized element/AST graph, it computes a recursive
Configuration for every program element and expression — what it throws
when accessed, invoked, or awaited — by combining override-table
entries, explicit annotations, type-level information, inferred body
throws, and inherited configuration from overridden members. It then
runs three lint drivers against the resolved configurations:
uncaught-throw, unsafe-assignment, and unsafe-override.

The resolver itself does not parse or type-check source; it consumes a
pre-typed AST produced by a host language's own parser and semantic
resolver.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
