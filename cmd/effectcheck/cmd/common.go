package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cwbudde/effectcheck/internal/overrides"
	"github.com/cwbudde/effectcheck/internal/program"
	"github.com/cwbudde/effectcheck/internal/resolver"
)

// loadProgram reads and parses a single program.json fixture.
func loadProgram(path string) (*program.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	prog, err := program.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// loadOverrideTable loads --override files at ascending precedence
// (§6), resolving throws-type expressions against prog's own class
// registry. An empty overridePaths yields an empty table rather than an
// error.
func loadOverrideTable(prog *program.Program, overridePaths []string) (*overrides.Table, []error) {
	if len(overridePaths) == 0 {
		return overrides.NewTable(), nil
	}
	return overrides.LoadFiles(overridePaths, prog.ResolveType)
}

// buildResolver loads overrides, registers prog's elements, and settles
// the fixed-point resolver (§4.9) — the shared setup every subcommand
// that touches a Configuration needs.
func buildResolver(prog *program.Program, overridePaths []string) (*resolver.Resolver, error) {
	table, loadErrs := loadOverrideTable(prog, overridePaths)
	for _, e := range loadErrs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	res := resolver.New(table)
	res.RegisterAll(prog.Elements)
	if err := res.Settle(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: resolver failed: %w", prog.File, err)
	}
	return res, nil
}
