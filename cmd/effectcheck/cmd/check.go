package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/effectcheck/internal/diagnostic"
	"github.com/cwbudde/effectcheck/internal/lint"
)

var (
	overridePaths []string
	noColor       bool
)

var checkCmd = &cobra.Command{
	Use:   "check <program.json>...",
	Short: "Run the checked-exceptions lint drivers over one or more programs",
	Long: `Loads each program.json fixture, settles the fixed-point resolver over
its element/AST graph, and runs the three lint drivers — uncaught-throw,
unsafe-assignment, unsafe-override — printing every diagnostic found.

Examples:
  # Check a single unit
  effectcheck check program.json

  # Check several units against a shared override table
  effectcheck check a.json b.json --override defaults.yaml --override project.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringArrayVar(&overridePaths, "override", nil,
		"override YAML file, lowest to highest precedence (repeatable)")
	checkCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostic output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var all []diagnostic.Diagnostic
	for _, path := range args {
		prog, err := loadProgram(path)
		if err != nil {
			return err
		}
		res, err := buildResolver(prog, overridePaths)
		if err != nil {
			return err
		}
		all = append(all, lint.Run(res, prog.Elements, prog.File, prog.Source)...)
	}

	diagnostic.SortStable(all)
	for _, d := range all {
		fmt.Fprint(cmd.OutOrStdout(), d.Format(!noColor))
	}
	if len(all) > 0 {
		return fmt.Errorf("%d diagnostic(s) found", len(all))
	}
	return nil
}
