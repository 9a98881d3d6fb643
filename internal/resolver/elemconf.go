package resolver

import (
	"github.com/cwbudde/effectcheck/internal/annotation"
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/typeconf"
	"github.com/cwbudde/effectcheck/internal/types"
)

// computeElement implements §4.6: override table first, then the
// per-element-kind rules.
func (r *Resolver) computeElement(elem ast.Element, req *request) config.Configuration {
	if cfg, ok := r.overrides.Lookup(elem.Location()); ok {
		return cfg
	}

	switch e := elem.(type) {
	case *ast.FunctionDecl:
		if e.BackingField != nil {
			// A synthetic accessor has no body or annotations of its own;
			// it forwards to the field declaration it was generated from.
			return r.getElementConfiguration(e.BackingField, req)
		}
		return r.computeExecutableElement(e, req)
	case *ast.VariableDecl:
		return r.computeVariableElement(e, req)
	case *ast.ClassDecl:
		// A class itself carries no throws; its members are computed
		// individually when requested.
		return config.Empty()
	case *ast.TypedefDecl:
		return config.ThrowsExactly(annotation.Read(e.Annotations()))
	default:
		return config.Empty()
	}
}

// computeExecutableElement implements §4.6 rule 2, steps 1-5.
// Precedence for the body-level throws: an explicit annotation anchors
// the element outright; otherwise a present body speaks for itself (so
// an override that throws more than its base keeps its inferred throws
// and the unsafe-override rule can see the widening); only a bodyless
// member falls back to the intersection of its overridden members.
func (r *Resolver) computeExecutableElement(fn *ast.FunctionDecl, req *request) config.Configuration {
	returnTypeConf := typeconf.Derive(fn.ReturnType)

	declared := annotation.Read(fn.Annotations())
	hasDeclared := !declared.Inferred

	var inherited config.Throws
	hasInherited := false
	if inhCfg, ok := r.inheritedConfiguration(fn, req); ok {
		// Overridden-member configurations arrive adapt-wrapped; unwrap
		// the invoke/await shells to recover body-level throws.
		if t, ok := computeEquivalentAnnotationConfiguration(inhCfg, fn.IsGetter || fn.IsSetter, fn.IsAsync); ok {
			inherited = t
			hasInherited = true
		}
	}

	var chosen config.Throws
	switch {
	case hasDeclared:
		chosen = declared
	case fn.Body != nil:
		chosen = r.bodyInferredThrows(fn, req)
	case hasInherited:
		chosen = inherited
	default:
		chosen = config.EmptyThrows()
	}

	return adapt(fn, chosen, returnTypeConf)
}

// bodyInferredThrows runs the throw finder over the body and reduces
// every immediate contribution to a single antichain-union Throws
// (§4.6 step 2.4: "inferred Throws = antichain-union of B").
func (r *Resolver) bodyInferredThrows(fn *ast.FunctionDecl, req *request) config.Throws {
	contributions := r.findThrows(fn.Body, req, nil)
	result := config.EmptyThrows()
	for _, t := range contributions {
		result = lattice.Union(result, t)
	}
	result.Inferred = true
	return result
}

// adapt wraps a raw body-throws value into the right access-level shape
// (§4.6 "adapt(elem, throws, returnConf)").
func adapt(fn *ast.FunctionDecl, throws config.Throws, returnConf config.Configuration) config.Configuration {
	current := config.Configuration{Throws: throws, Value: returnConf.Value}
	if fn.IsAsync {
		current = config.Empty().WithValue(config.Await, current)
	}
	if !fn.IsGetter && !fn.IsSetter {
		current = config.Empty().WithValue(config.Invoke, current)
	}
	return current
}

// computeEquivalentAnnotationConfiguration inverts adapt: given a
// computed Configuration, recover the Throws that would have to be
// annotated on the body to produce it. Returns ok=false if the expected
// shells are missing (§4.6).
func computeEquivalentAnnotationConfiguration(cfg config.Configuration, isGetterOrSetter, isAsynchronous bool) (config.Throws, bool) {
	current := cfg
	if !isGetterOrSetter {
		inv, ok := current.Value[config.Invoke]
		if !ok {
			return config.Throws{}, false
		}
		current = inv
	}
	if isAsynchronous {
		aw, ok := current.Value[config.Await]
		if !ok {
			return config.Throws{}, false
		}
		current = aw
	}
	return current.Throws, true
}

// computeVariableElement implements §4.6 rule 3.
func (r *Resolver) computeVariableElement(v *ast.VariableDecl, req *request) config.Configuration {
	typeConf := typeconf.Derive(v.Type)

	var initConf config.Configuration
	hasInit := false
	if v.Initializer != nil && !v.IsLate {
		initConf = r.getExpressionConfiguration(v.Initializer, req)
		hasInit = true
	}

	annotThrows := annotation.Read(v.Annotations())
	annotConf := annotationToSlot(annotThrows, v.Type)

	var inheritedConf config.Configuration
	hasInherited := false
	if v.IsField {
		if inh, ok := r.inheritedConfiguration(v, req); ok {
			inheritedConf = inh
			hasInherited = true
		}
	}

	if v.IsLate && v.Initializer != nil {
		// Late variable: the initializer's own top-level throws surface
		// as the variable's access throws; evaluation is deferred.
		lazy := r.getExpressionConfiguration(v.Initializer, req)
		result := config.Configuration{Throws: lazy.Throws, Value: typeConf.Value}
		if hasInherited {
			result = lattice.IntersectConfiguration(result, inheritedConf)
		}
		return result
	}

	pieces := make([]config.Configuration, 0, 4)
	if hasInit {
		pieces = append(pieces, initConf)
	}
	pieces = append(pieces, config.ForValue(typeConf.Value))
	if !annotConf.IsEmpty() {
		pieces = append(pieces, annotConf)
	}
	if hasInherited {
		pieces = append(pieces, inheritedConf)
	}
	return resolvePieces(pieces)
}

// annotationToSlot places an annotation-derived Throws at the invoke
// slot (callable type) or await slot (future type); if both or neither
// type kind applies the annotation is dropped as ambiguous (§4.6 rule 3
// third bullet).
func annotationToSlot(thrown config.Throws, typ types.Type) config.Configuration {
	if thrown.Inferred && len(thrown.ThrownTypes) == 0 && !thrown.CanThrowUndeclared {
		return config.Empty()
	}
	_, isFunction := typ.(types.FunctionShape)
	if c, ok := typ.(types.CallableShape); ok && c.CallMember() != nil {
		isFunction = true
	}
	_, isFuture := typ.(types.FutureShape)
	switch {
	case isFunction && !isFuture:
		return config.Empty().WithValue(config.Invoke, config.ThrowsExactly(thrown))
	case isFuture && !isFunction:
		return config.Empty().WithValue(config.Await, config.ThrowsExactly(thrown))
	default:
		return config.Empty()
	}
}

// resolvePieces merges several partial Configurations where an explicit
// (non-inferred) Throws always wins over an inferred one at the same
// level, recursing per value slot (§4.6 step 2.5 "Merging rule").
func resolvePieces(pieces []config.Configuration) config.Configuration {
	if len(pieces) == 0 {
		return config.Empty()
	}
	result := pieces[0]
	for _, p := range pieces[1:] {
		result = mergeConfiguration(result, p)
	}
	return result
}

// mergeConfiguration combines a and b such that an explicit Throws wins
// over an inferred one, recursing into each present value slot.
func mergeConfiguration(a, b config.Configuration) config.Configuration {
	throws := a.Throws
	switch {
	case a.Throws.Inferred && !b.Throws.Inferred:
		throws = b.Throws
	case !a.Throws.Inferred && b.Throws.Inferred:
		throws = a.Throws
	case a.Throws.Inferred && b.Throws.Inferred:
		throws = lattice.Union(a.Throws, b.Throws)
	default:
		throws = lattice.Union(a.Throws, b.Throws)
	}
	out := config.Configuration{Throws: throws}
	for _, kind := range []config.PromotionKind{config.Invoke, config.Await} {
		av, bv := a.ValueAt(kind), b.ValueAt(kind)
		if av.IsEmpty() && bv.IsEmpty() {
			continue
		}
		out = out.WithValue(kind, mergeConfiguration(av, bv))
	}
	return out
}
