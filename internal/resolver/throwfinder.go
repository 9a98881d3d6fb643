package resolver

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// findThrows implements §4.4: walks body and returns the immediate
// Throws contribution of every visited expression node, skipping nested
// function-expression bodies, skipping late-variable initializers, and
// subtracting caught types at try/catch boundaries. caught accumulates
// the exception types already handled by enclosing catch clauses — used
// both here and by the uncaught-throw lint driver, which recomputes the
// same "enclosing allowed set" independently per §4.10.
func (r *Resolver) findThrows(stmt ast.Statement, req *request, caught []types.Type) []config.Throws {
	var out []config.Throws
	r.walkStatement(stmt, req, caught, &out)
	return out
}

func (r *Resolver) walkStatement(stmt ast.Statement, req *request, caught []types.Type, out *[]config.Throws) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		if s == nil {
			return
		}
		for _, inner := range s.Statements {
			r.walkStatement(inner, req, caught, out)
		}
	case *ast.ExpressionStatement:
		r.walkExpression(s.Expr, req, caught, out)
	case *ast.IfStatement:
		r.walkExpression(s.Condition, req, caught, out)
		r.walkStatement(s.Then, req, caught, out)
		r.walkStatement(s.Else, req, caught, out)
	case *ast.ReturnStatement:
		r.walkExpression(s.Value, req, caught, out)
	case *ast.VarDeclStatement:
		for _, d := range s.Decls {
			if d.IsLate {
				continue // §4.4: "Skip initializers of late variable declarations"
			}
			r.walkExpression(d.Initializer, req, caught, out)
		}
	case *ast.RaiseStatement:
		*out = append(*out, config.Throws{ThrownTypes: []types.Type{s.StaticType}})
		r.walkExpression(s.Operand, req, caught, out)
	case *ast.TryStatement:
		r.walkTry(s, req, caught, out)
	case *ast.FunctionDecl:
		// A nested function declaration used as a statement contributes
		// nothing here; its own body is analyzed on its own request.
	}
}

func (r *Resolver) walkTry(s *ast.TryStatement, req *request, caught []types.Type, out *[]config.Throws) {
	var tryOut []config.Throws
	r.walkStatement(s.TryBlock, req, caught, &tryOut)

	clearsAll := false
	var caughtTypes []types.Type
	for _, c := range s.Catches {
		if c.CaughtType == nil {
			clearsAll = true
		} else {
			caughtTypes = append(caughtTypes, c.CaughtType)
		}
	}

	for _, t := range tryOut {
		if clearsAll {
			continue
		}
		*out = append(*out, subtractCaught(t, caughtTypes))
	}

	nestedCaught := append(append([]types.Type{}, caught...), caughtTypes...)
	for _, c := range s.Catches {
		catchReq := &request{reader: req.reader, library: req.library, rethrowType: c.CaughtType}
		r.walkStatement(c.Body, catchReq, nestedCaught, out)
	}
	r.walkStatement(s.FinallyBlock, req, caught, out)
}

// subtractCaught removes every thrown type covered by some caught type
// (§4.4: "remove types t with t ≤ E_i").
func subtractCaught(t config.Throws, caughtTypes []types.Type) config.Throws {
	var remaining []types.Type
	for _, thrown := range t.ThrownTypes {
		covered := false
		for _, c := range caughtTypes {
			if types.LessOrEqual(thrown, c) {
				covered = true
				break
			}
		}
		if !covered {
			remaining = append(remaining, thrown)
		}
	}
	return config.Throws{ThrownTypes: remaining, CanThrowUndeclared: t.CanThrowUndeclared}
}

func (r *Resolver) walkExpression(expr ast.Expression, req *request, caught []types.Type, out *[]config.Throws) {
	if expr == nil {
		return
	}

	cfg := r.getExpressionConfiguration(expr, req)
	*out = append(*out, cfg.Throws)

	switch e := expr.(type) {
	case *ast.FunctionDecl:
		// Nested function expression: has its own configuration; do not
		// descend (§4.4: "Do not descend into nested function expressions").
	case *ast.PropertyAccess:
		r.walkExpression(e.Target, req, caught, out)
	case *ast.Call:
		r.walkExpression(e.Callee, req, caught, out)
		for _, a := range e.Arguments {
			r.walkExpression(a, req, caught, out)
		}
	case *ast.IndexExpr:
		r.walkExpression(e.Target, req, caught, out)
		r.walkExpression(e.Index, req, caught, out)
	case *ast.InstanceCreation:
		for _, a := range e.Arguments {
			r.walkExpression(a, req, caught, out)
		}
	case *ast.BinaryExpr:
		r.walkExpression(e.Left, req, caught, out)
		r.walkExpression(e.Right, req, caught, out)
	case *ast.AwaitExpr:
		r.walkExpression(e.Operand, req, caught, out)
	case *ast.AssignExpr:
		r.walkExpression(e.Target, req, caught, out)
		r.walkExpression(e.Value, req, caught, out)
	case *ast.ConditionalExpr:
		r.walkExpression(e.Condition, req, caught, out)
		r.walkExpression(e.Then, req, caught, out)
		r.walkExpression(e.Otherwise, req, caught, out)
	case *ast.SwitchExpr:
		r.walkExpression(e.Scrutinee, req, caught, out)
		for _, a := range e.Arms {
			r.walkExpression(a, req, caught, out)
		}
	case *ast.CastExpr:
		r.walkExpression(e.Operand, req, caught, out)
	case *ast.NonNullAssert:
		r.walkExpression(e.Operand, req, caught, out)
	case *ast.IfNullExpr:
		r.walkExpression(e.Left, req, caught, out)
		r.walkExpression(e.Right, req, caught, out)
	case *ast.ThrowExpr:
		r.walkExpression(e.Operand, req, caught, out)
	case *ast.ParenExpr:
		r.walkExpression(e.Inner, req, caught, out)
	case *ast.NamedArg:
		r.walkExpression(e.Value, req, caught, out)
	case *ast.IsExpr:
		r.walkExpression(e.Operand, req, caught, out)
	}
}
