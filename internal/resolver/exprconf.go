package resolver

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/types"
)

// computeExpression implements §4.5's dispatch table.
func (r *Resolver) computeExpression(expr ast.Expression, req *request) config.Configuration {
	switch e := expr.(type) {
	case *ast.Literal:
		return config.Empty()
	case *ast.ParenExpr:
		return r.getExpressionConfiguration(e.Inner, req)
	case *ast.NamedArg:
		return r.getExpressionConfiguration(e.Value, req)
	case *ast.IsExpr:
		return config.Empty()

	case *ast.Identifier:
		if e.Element == nil {
			return config.Empty()
		}
		return r.getElementConfiguration(e.Element, req)

	case *ast.PropertyAccess:
		if e.Element == nil {
			return config.Empty()
		}
		return r.getElementConfiguration(e.Element, req)

	case *ast.Call:
		return r.computeInvocation(e.Callee, e.StaticTarget, req)

	case *ast.IndexExpr:
		return r.computeInvocation(e.Target, e.Element, req)

	case *ast.InstanceCreation:
		return r.computeInvocation(nil, e.Constructor, req)

	case *ast.BinaryExpr:
		if e.Element == nil {
			return config.Empty()
		}
		return r.computeInvocation(nil, e.Element, req)

	case *ast.AwaitExpr:
		inner := r.getExpressionConfiguration(e.Operand, req)
		if awaited, ok := inner.Value[config.Await]; ok {
			// The await happens now, so the await slot's throws are this
			// expression's own immediate throws.
			return awaited
		}
		// Non-future case: awaiting a non-future value is a no-op; its
		// value passes through unchanged.
		return config.Configuration{Throws: config.EmptyThrows(), Value: inner.Value}

	case *ast.AssignExpr:
		value := r.getExpressionConfiguration(e.Value, req)
		setterThrows := config.EmptyThrows()
		if e.Setter != nil {
			setterThrows = r.getElementConfiguration(e.Setter, req).Throws
		}
		return config.Configuration{Throws: setterThrows, Value: value.Value}

	case *ast.ConditionalExpr:
		then := r.getExpressionConfiguration(e.Then, req)
		otherwise := r.getExpressionConfiguration(e.Otherwise, req)
		return lattice.UnionConfiguration(then, otherwise)

	case *ast.SwitchExpr:
		var result config.Configuration
		first := true
		for _, arm := range e.Arms {
			armCfg := r.getExpressionConfiguration(arm, req)
			if first {
				result = armCfg
				first = false
				continue
			}
			result = lattice.UnionConfiguration(result, armCfg)
		}
		return result

	case *ast.CastExpr:
		inner := r.getExpressionConfiguration(e.Operand, req)
		throws := config.EmptyThrows()
		if !types.IsDynamicOrNullableObject(e.Target) {
			throws = config.Throws{ThrownTypes: []types.Type{r.wellKnown.TypeError}}
		}
		return config.Configuration{Throws: throws, Value: inner.Value}

	case *ast.NonNullAssert:
		inner := r.getExpressionConfiguration(e.Operand, req)
		return config.Configuration{
			Throws: config.Throws{ThrownTypes: []types.Type{r.wellKnown.TypeError}},
			Value:  inner.Value,
		}

	case *ast.ThrowExpr:
		inner := r.getExpressionConfiguration(e.Operand, req)
		thrown := e.StaticType
		if thrown == nil {
			thrown = r.wellKnown.Object
		}
		return config.Configuration{
			Throws: config.Throws{ThrownTypes: []types.Type{thrown}},
			Value:  inner.Value,
		}

	case *ast.RethrowExpr:
		thrown := req.rethrowType
		if thrown == nil {
			thrown = r.wellKnown.Object
		}
		return config.ThrowsExactly(config.Throws{ThrownTypes: []types.Type{thrown}})

	case *ast.IfNullExpr:
		left := r.getExpressionConfiguration(e.Left, req)
		right := r.getExpressionConfiguration(e.Right, req)
		out := config.Empty()
		for _, kind := range []config.PromotionKind{config.Invoke, config.Await} {
			lv, rv := left.ValueAt(kind), right.ValueAt(kind)
			if lv.IsEmpty() && rv.IsEmpty() {
				continue
			}
			out = out.WithValue(kind, lattice.UnionConfiguration(lv, rv))
		}
		return out

	case *ast.FunctionDecl:
		return r.computeFunctionExpression(e, req)

	default:
		return config.Empty()
	}
}

// computeInvocation is the shared rule for "method/function call, index,
// instance-creation, binary (operator)": the expression's Configuration
// is the invoked target's invoke slot — the invocation happens now, so
// that slot's throws are this expression's own immediate throws, and the
// slot's value slots describe the produced result. A resolvable target
// whose configuration lacks an invoke slot yields NoSuchMethodError. An
// in-flight target (its computation has not finalized yet) contributes
// nothing; the settle loop replaces the provisional answer.
func (r *Resolver) computeInvocation(calleeExpr ast.Expression, target ast.Element, req *request) config.Configuration {
	if calleeExpr != nil {
		// The callee evaluates first; its own throws are collected from
		// the callee node itself, not added here.
		r.getExpressionConfiguration(calleeExpr, req)
	}
	if target == nil {
		return config.ThrowsExactly(config.Throws{ThrownTypes: []types.Type{r.wellKnown.NoSuchMethodError}})
	}
	targetCfg, known := r.getElementConfigurationChecked(target, req)
	if !known {
		return config.Empty()
	}
	if inv, ok := targetCfg.Value[config.Invoke]; ok {
		return inv
	}
	return config.ThrowsExactly(config.Throws{ThrownTypes: []types.Type{r.wellKnown.NoSuchMethodError}})
}

// computeFunctionExpression implements §4.7.
func (r *Resolver) computeFunctionExpression(fn *ast.FunctionDecl, req *request) config.Configuration {
	if fn.StaticParam != nil {
		// Rule 1: context-driven by the parameter it flows into, so the
		// literal's body may throw exactly what the receiver accepts.
		return r.getElementConfiguration(fn.StaticParam, req)
	}
	return r.inferredFunctionExpression(fn, req)
}

// inferredFunctionExpression is §4.7 rule 2: the body's collected throws
// under an invoke slot (a zero-throws configuration when the body is
// clean, never an absent slot), wrapped once more under await for an
// asynchronous body.
func (r *Resolver) inferredFunctionExpression(fn *ast.FunctionDecl, req *request) config.Configuration {
	contributions := r.findThrows(fn.Body, req, nil)
	throws := config.EmptyThrows()
	for _, t := range contributions {
		throws = lattice.Union(throws, t)
	}
	throws.Inferred = true

	current := config.Empty().WithValue(config.Invoke, config.ThrowsExactly(throws))
	if fn.IsAsync {
		inner := current.Value[config.Invoke]
		current = config.Empty().WithValue(config.Invoke, config.Empty().WithValue(config.Await, inner))
	}
	return current
}

// FunctionExpressionInferredConfiguration exposes the body-derived
// configuration of a function-expression literal regardless of the
// context it flows into. The unsafe-assignment driver compares this
// against the receiving location's configuration; the memoized
// expression configuration can't serve there, since a literal assigned
// into a parameter adopts that parameter's configuration by rule 1 and
// would always compare equal to it.
func (r *Resolver) FunctionExpressionInferredConfiguration(fn *ast.FunctionDecl) config.Configuration {
	req := &request{reader: nodeKey(fn), library: fn.Location().Library}
	return r.inferredFunctionExpression(fn, req)
}
