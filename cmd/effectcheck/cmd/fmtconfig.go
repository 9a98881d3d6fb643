package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/effectcheck/internal/ast"
)

var fmtConfigCmd = &cobra.Command{
	Use:   "fmt-config <program.json> <element-path>",
	Short: "Pretty-print a single element's resolved Configuration",
	Long: `Resolves program.json and prints the structural Configuration tree for
the named element (e.g. "Outer.Member" or "Outer.Member.$0" for a
parameter), using the same pretty.Sprint rendering the test suite uses
to diff Configuration values — handy for inspecting what the resolver
actually computed without writing a test.`,
	Args: cobra.ExactArgs(2),
	RunE: runFmtConfig,
}

func init() {
	rootCmd.AddCommand(fmtConfigCmd)
	fmtConfigCmd.Flags().StringArrayVar(&overridePaths, "override", nil,
		"override YAML file to apply before resolving (repeatable)")
}

func runFmtConfig(cmd *cobra.Command, args []string) error {
	path, elementPath := args[0], args[1]

	prog, err := loadProgram(path)
	if err != nil {
		return err
	}
	res, err := buildResolver(prog, overridePaths)
	if err != nil {
		return err
	}

	elem := findElement(prog.Elements, elementPath)
	if elem == nil {
		exitWithError("no element named %q in %s", elementPath, path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(res.ElementConfiguration(elem)))
	return nil
}

func findElement(elems []ast.Element, path string) ast.Element {
	for _, e := range elems {
		if e.Location().Path == path {
			return e
		}
	}
	return nil
}
