package lint

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/diagnostic"
	"github.com/cwbudde/effectcheck/internal/lattice"
	"github.com/cwbudde/effectcheck/internal/resolver"
)

// UnsafeOverride implements the unsafe-override rule (§4.10): for every
// non-static instance member with a discoverable inherited configuration
// (§4.8), report when the member's own configuration is not compatible
// with the inherited one at level 0.
func UnsafeOverride(r *resolver.Resolver, elem ast.Element, file, source string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	if !isNonStaticInstanceMember(elem) {
		return out
	}
	inherited, ok := r.InheritedConfiguration(elem)
	if !ok {
		return out
	}
	own := r.ElementConfiguration(elem)
	if lattice.IsCompatible(own, inherited) {
		return out
	}
	out = append(out, diagnostic.Diagnostic{
		Code:     diagnostic.UnsafeOverride,
		Severity: diagnostic.SeverityError,
		Message:  diagnostic.MessageFor(diagnostic.UnsafeOverride, ""),
		File:     file,
		Pos:      elem.Pos(),
		Source:   source,
	})
	return out
}

func isNonStaticInstanceMember(elem ast.Element) bool {
	switch e := elem.(type) {
	case *ast.FunctionDecl:
		return !e.IsStatic && !e.IsConstructor && e.Owner != nil
	case *ast.VariableDecl:
		return !e.IsStatic && e.IsField && e.Owner != nil
	default:
		return false
	}
}
