package cmd

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/overrides"
	"github.com/cwbudde/effectcheck/internal/resolver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <program.json>",
	Short: "Dump every element's resolved configuration as an override-schema YAML document",
	Long: `The bootstrap tool from the design notes: dumps every element's resolved
Configuration to YAML in the override schema (§6), so a whole standard
library's defaults can be seeded once and then hand-edited.

Unlike the resolver's own inherited-configuration rule (§4.8, which
intersects configurations upward from supertypes), an abstract member's
dump entry is the *union* over every concrete implementer found in the
program: a base declaration that happens to throw nothing must not
silently constrain implementers that do.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringArrayVar(&overridePaths, "override", nil,
		"override YAML file to apply before dumping (repeatable)")
}

func runDump(cmd *cobra.Command, args []string) error {
	prog, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	res, err := buildResolver(prog, overridePaths)
	if err != nil {
		return err
	}

	implementers := implementersByName(prog.Elements)
	cfgs := make(map[config.ElementLocation]config.Configuration, len(prog.Elements))
	for _, elem := range prog.Elements {
		cfgs[elem.Location()] = bootstrapConfiguration(res, elem, implementers)
	}

	out, err := yaml.Marshal(overrides.ToDocument(cfgs))
	if err != nil {
		return fmt.Errorf("failed to marshal override document: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

// bootstrapConfiguration returns elem's dump entry: its resolved
// Configuration directly, unless elem is an abstract/external method
// with at least one concrete implementer found elsewhere in the
// program, in which case the entry is the union of every implementer's
// Configuration (design note §9's inversion).
func bootstrapConfiguration(res *resolver.Resolver, elem ast.Element, implementers map[string][]ast.Element) config.Configuration {
	fn, ok := elem.(*ast.FunctionDecl)
	if !ok || fn.Body != nil || fn.Owner == nil {
		return res.ElementConfiguration(elem)
	}
	impls := implementers[fn.Name()]
	if len(impls) == 0 {
		return res.ElementConfiguration(elem)
	}
	result := res.ElementConfiguration(impls[0])
	for _, impl := range impls[1:] {
		result = lattice.UnionConfiguration(result, res.ElementConfiguration(impl))
	}
	return result
}

// implementersByName indexes every concrete (body-bearing) method by
// name, across all classes in the program — the bootstrap tool's
// stand-in for "every implementer of this abstract member," since the
// fixture format has no separate method-resolution-order index.
func implementersByName(elems []ast.Element) map[string][]ast.Element {
	out := make(map[string][]ast.Element)
	for _, elem := range elems {
		fn, ok := elem.(*ast.FunctionDecl)
		if !ok || fn.Body == nil || fn.Owner == nil {
			continue
		}
		out[fn.Name()] = append(out[fn.Name()], fn)
	}
	return out
}
