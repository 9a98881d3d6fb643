// Package lint implements §4.10's three read-only lint drivers over a
// resolved Resolver. Grounded on the teacher's analyze_exceptions.go,
// which walks the same try/raise/except shapes to validate Pascal
// exception handling; generalized here from "is this syntactically
// well-formed" to "is this consistent with its Configuration."
package lint

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/diagnostic"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/resolver"
	"github.com/cwbudde/effectcheck/internal/types"
)

// Run executes all three drivers over every element in elems and
// returns the combined, sorted diagnostics.
func Run(r *resolver.Resolver, elems []ast.Element, file string, source string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, elem := range elems {
		if fn, ok := elem.(*ast.FunctionDecl); ok && fn.Body != nil {
			out = append(out, UncaughtThrow(r, fn, file, source)...)
			out = append(out, UnsafeAssignment(r, fn, file, source)...)
		}
	}
	for _, elem := range elems {
		out = append(out, UnsafeOverride(r, elem, file, source)...)
	}
	diagnostic.SortStable(out)
	return out
}

// allowance is the enclosing function's permitted-throws set plus the
// caught types of enclosing try statements. all is set inside a try
// body guarded by an untyped catch-all clause, where nothing escapes.
type allowance struct {
	throws config.Throws
	all    bool
}

func (a allowance) covers(t types.Type) bool {
	return a.all || a.throws.Covers(t)
}

func (a allowance) withCaught(t types.Type) allowance {
	next := a
	next.throws = config.Throws{
		ThrownTypes:        config.InsertIntoAntichain(a.throws.ThrownTypes, t),
		CanThrowUndeclared: a.throws.CanThrowUndeclared,
	}
	return next
}

// UncaughtThrow implements the uncaught-throw rule: for every expression
// reachable from fn's body, an uncovered thrown type (not covered by the
// function's own declared+caught allowance) is reported. Nested function
// expressions are not descended into; their bodies are governed by their
// own configurations.
func UncaughtThrow(r *resolver.Resolver, fn *ast.FunctionDecl, file, source string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	allowed := allowance{throws: enclosingAllowance(r, fn)}
	walkForUncaughtThrow(r, fn.Body, fn.Location().Library, allowed, file, source, &out)
	return out
}

func enclosingAllowance(r *resolver.Resolver, fn *ast.FunctionDecl) config.Throws {
	cfg := r.ElementConfiguration(fn)
	inv, ok := cfg.Value[config.Invoke]
	if !ok {
		return config.EmptyThrows()
	}
	allowed := inv.Throws
	if fn.IsAsync {
		if aw, ok := inv.Value[config.Await]; ok {
			allowed = lattice.Union(allowed, aw.Throws)
		}
	}
	return allowed
}

func walkForUncaughtThrow(r *resolver.Resolver, stmt ast.Statement, enclosingLib string, allowed allowance, file, source string, out *[]diagnostic.Diagnostic) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		if s == nil {
			return
		}
		for _, inner := range s.Statements {
			walkForUncaughtThrow(r, inner, enclosingLib, allowed, file, source, out)
		}
	case *ast.ExpressionStatement:
		checkExprUncaught(r, s.Expr, enclosingLib, allowed, file, source, out)
	case *ast.IfStatement:
		checkExprUncaught(r, s.Condition, enclosingLib, allowed, file, source, out)
		walkForUncaughtThrow(r, s.Then, enclosingLib, allowed, file, source, out)
		walkForUncaughtThrow(r, s.Else, enclosingLib, allowed, file, source, out)
	case *ast.ReturnStatement:
		checkExprUncaught(r, s.Value, enclosingLib, allowed, file, source, out)
	case *ast.VarDeclStatement:
		for _, d := range s.Decls {
			checkExprUncaught(r, d.Initializer, enclosingLib, allowed, file, source, out)
		}
	case *ast.RaiseStatement:
		checkThrown(s.StaticType, allowed, s.Pos(), file, source, out)
		checkExprUncaught(r, s.Operand, enclosingLib, allowed, file, source, out)
	case *ast.TryStatement:
		walkTryForUncaughtThrow(r, s, enclosingLib, allowed, file, source, out)
	}
}

func walkTryForUncaughtThrow(r *resolver.Resolver, s *ast.TryStatement, enclosingLib string, allowed allowance, file, source string, out *[]diagnostic.Diagnostic) {
	bodyAllowed := allowed
	for _, c := range s.Catches {
		if c.CaughtType != nil {
			bodyAllowed = bodyAllowed.withCaught(c.CaughtType)
		} else {
			// An untyped catch-all clause: nothing escapes the try body
			// uncaught, matching the throw finder's "clears all" rule.
			bodyAllowed.all = true
		}
	}
	walkForUncaughtThrow(r, s.TryBlock, enclosingLib, bodyAllowed, file, source, out)
	for _, c := range s.Catches {
		walkForUncaughtThrow(r, c.Body, enclosingLib, allowed, file, source, out)
	}
	walkForUncaughtThrow(r, s.FinallyBlock, enclosingLib, allowed, file, source, out)
}

// checkExprUncaught reports uncovered throws for expr and recurses into
// every sub-expression (each node's Throws is its immediate
// contribution, so no throw is counted twice), stopping at function
// expressions.
func checkExprUncaught(r *resolver.Resolver, expr ast.Expression, enclosingLib string, allowed allowance, file, source string, out *[]diagnostic.Diagnostic) {
	if expr == nil {
		return
	}
	if _, ok := expr.(*ast.FunctionDecl); ok {
		return
	}

	cfg := r.ExpressionConfiguration(expr, enclosingLib)
	for _, t := range cfg.Throws.ThrownTypes {
		checkThrown(t, allowed, expr.Pos(), file, source, out)
	}
	if cfg.Throws.CanThrowUndeclared && !allowed.all && !allowed.throws.CanThrowUndeclared {
		*out = append(*out, diagnostic.Diagnostic{
			Code:     diagnostic.UncaughtThrow,
			Severity: diagnostic.SeverityError,
			Message:  diagnostic.MessageFor(diagnostic.UncaughtThrow, "Object"),
			File:     file,
			Pos:      expr.Pos(),
			Source:   source,
		})
	}

	for _, child := range subExpressions(expr) {
		checkExprUncaught(r, child, enclosingLib, allowed, file, source, out)
	}
}

// subExpressions enumerates the direct child expressions of expr, in
// source order.
func subExpressions(expr ast.Expression) []ast.Expression {
	switch e := expr.(type) {
	case *ast.PropertyAccess:
		return []ast.Expression{e.Target}
	case *ast.Call:
		return append([]ast.Expression{e.Callee}, e.Arguments...)
	case *ast.IndexExpr:
		return []ast.Expression{e.Target, e.Index}
	case *ast.InstanceCreation:
		return e.Arguments
	case *ast.BinaryExpr:
		return []ast.Expression{e.Left, e.Right}
	case *ast.AwaitExpr:
		return []ast.Expression{e.Operand}
	case *ast.AssignExpr:
		return []ast.Expression{e.Target, e.Value}
	case *ast.ConditionalExpr:
		return []ast.Expression{e.Condition, e.Then, e.Otherwise}
	case *ast.SwitchExpr:
		return append([]ast.Expression{e.Scrutinee}, e.Arms...)
	case *ast.CastExpr:
		return []ast.Expression{e.Operand}
	case *ast.NonNullAssert:
		return []ast.Expression{e.Operand}
	case *ast.IfNullExpr:
		return []ast.Expression{e.Left, e.Right}
	case *ast.ThrowExpr:
		return []ast.Expression{e.Operand}
	case *ast.ParenExpr:
		return []ast.Expression{e.Inner}
	case *ast.NamedArg:
		return []ast.Expression{e.Value}
	case *ast.IsExpr:
		return []ast.Expression{e.Operand}
	default:
		return nil
	}
}

func checkThrown(t types.Type, allowed allowance, pos ast.Position, file, source string, out *[]diagnostic.Diagnostic) {
	if t == nil || allowed.covers(t) {
		return
	}
	*out = append(*out, diagnostic.Diagnostic{
		Code:     diagnostic.UncaughtThrow,
		Severity: diagnostic.SeverityError,
		Message:  diagnostic.MessageFor(diagnostic.UncaughtThrow, t.String()),
		File:     file,
		Pos:      pos,
		Source:   source,
	})
}
