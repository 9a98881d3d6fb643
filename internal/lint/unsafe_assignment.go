package lint

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/diagnostic"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/resolver"
)

// UnsafeAssignment implements the unsafe-assignment rule: for every
// argument/assignment/initializer inside fn's body, the source
// expression's Configuration must be compatible with the target's at
// level 1 (§4.10: "level 1 because the evaluation's own throws of the
// source expression are handled by uncaught-throw").
func UnsafeAssignment(r *resolver.Resolver, fn *ast.FunctionDecl, file, source string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	lib := fn.Location().Library
	walkForUnsafeAssignment(r, fn.Body, lib, file, source, &out)
	return out
}

func walkForUnsafeAssignment(r *resolver.Resolver, stmt ast.Statement, lib, file, source string, out *[]diagnostic.Diagnostic) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		if s == nil {
			return
		}
		for _, inner := range s.Statements {
			walkForUnsafeAssignment(r, inner, lib, file, source, out)
		}
	case *ast.ExpressionStatement:
		walkExprForUnsafeAssignment(r, s.Expr, lib, file, source, out)
	case *ast.IfStatement:
		walkExprForUnsafeAssignment(r, s.Condition, lib, file, source, out)
		walkForUnsafeAssignment(r, s.Then, lib, file, source, out)
		walkForUnsafeAssignment(r, s.Else, lib, file, source, out)
	case *ast.ReturnStatement:
		walkExprForUnsafeAssignment(r, s.Value, lib, file, source, out)
	case *ast.VarDeclStatement:
		for _, d := range s.Decls {
			if d.Initializer == nil {
				continue
			}
			checkAssignment(r, d.Initializer, d, lib, file, source, out)
			walkExprForUnsafeAssignment(r, d.Initializer, lib, file, source, out)
		}
	case *ast.RaiseStatement:
		walkExprForUnsafeAssignment(r, s.Operand, lib, file, source, out)
	case *ast.TryStatement:
		walkForUnsafeAssignment(r, s.TryBlock, lib, file, source, out)
		for _, c := range s.Catches {
			walkForUnsafeAssignment(r, c.Body, lib, file, source, out)
		}
		walkForUnsafeAssignment(r, s.FinallyBlock, lib, file, source, out)
	}
}

func walkExprForUnsafeAssignment(r *resolver.Resolver, expr ast.Expression, lib, file, source string, out *[]diagnostic.Diagnostic) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.AssignExpr:
		if e.Setter != nil {
			checkAssignment(r, e.Value, e.Setter, lib, file, source, out)
		}
		walkExprForUnsafeAssignment(r, e.Value, lib, file, source, out)
	case *ast.Call:
		if fn, ok := e.StaticTarget.(*ast.FunctionDecl); ok {
			for i, arg := range e.Arguments {
				if i < len(fn.Parameters) {
					checkAssignment(r, arg, fn.Parameters[i], lib, file, source, out)
				}
				walkExprForUnsafeAssignment(r, arg, lib, file, source, out)
			}
			return
		}
		for _, arg := range e.Arguments {
			walkExprForUnsafeAssignment(r, arg, lib, file, source, out)
		}
	case *ast.InstanceCreation:
		if fn, ok := e.Constructor.(*ast.FunctionDecl); ok {
			for i, arg := range e.Arguments {
				if i < len(fn.Parameters) {
					checkAssignment(r, arg, fn.Parameters[i], lib, file, source, out)
				}
				walkExprForUnsafeAssignment(r, arg, lib, file, source, out)
			}
			return
		}
		for _, arg := range e.Arguments {
			walkExprForUnsafeAssignment(r, arg, lib, file, source, out)
		}
	case *ast.ConditionalExpr:
		walkExprForUnsafeAssignment(r, e.Condition, lib, file, source, out)
		walkExprForUnsafeAssignment(r, e.Then, lib, file, source, out)
		walkExprForUnsafeAssignment(r, e.Otherwise, lib, file, source, out)
	case *ast.AwaitExpr:
		walkExprForUnsafeAssignment(r, e.Operand, lib, file, source, out)
	case *ast.ParenExpr:
		walkExprForUnsafeAssignment(r, e.Inner, lib, file, source, out)
	}
}

// checkAssignment reports an unsafe_assignment diagnostic at sourceExpr
// when its Configuration is not compatible with target's at level 1.
// A function-expression literal is compared by its body-derived
// configuration: its memoized configuration is context-driven (§4.7
// rule 1, the receiving parameter's own), which would make this check
// vacuous.
func checkAssignment(r *resolver.Resolver, sourceExpr ast.Expression, target ast.Element, lib, file, source string, out *[]diagnostic.Diagnostic) {
	var sourceCfg config.Configuration
	if fn, ok := sourceExpr.(*ast.FunctionDecl); ok && fn.IsExpression {
		sourceCfg = r.FunctionExpressionInferredConfiguration(fn)
	} else {
		sourceCfg = r.ExpressionConfiguration(sourceExpr, lib)
	}
	targetCfg := r.ElementConfiguration(target)
	if lattice.IsCompatibleAtLevel(sourceCfg, targetCfg, 1) {
		return
	}
	*out = append(*out, diagnostic.Diagnostic{
		Code:     diagnostic.UnsafeAssignment,
		Severity: diagnostic.SeverityError,
		Message:  diagnostic.MessageFor(diagnostic.UnsafeAssignment, ""),
		File:     file,
		Pos:      sourceExpr.Pos(),
		Source:   source,
	})
}
