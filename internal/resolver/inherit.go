package resolver

import (
	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/lattice"
)

// InheritedConfiguration is the public entry point used by the lint
// drivers: computes §4.8's inherited configuration for elem relative to
// a fresh top-level request (elem itself as the reader).
func (r *Resolver) InheritedConfiguration(elem ast.Element) (config.Configuration, bool) {
	req := &request{reader: elemKey(elem.Location()), library: elem.Location().Library}
	return r.inheritedConfiguration(elem, req)
}

// inheritedConfiguration implements §4.8 for a member m: breadth-first
// walk of m's owner's direct supertypes, stopping at the first
// same-named non-static non-constructor child per branch, collecting
// every discovered configuration and intersecting them. Returns
// ok=false when m has no owner (top-level element) or no overridden
// member is found anywhere in the hierarchy.
func (r *Resolver) inheritedConfiguration(elem ast.Element, req *request) (config.Configuration, bool) {
	owner := ownerOf(elem)
	if owner == nil {
		return config.Configuration{}, false
	}

	visited := map[*ast.ClassDecl]bool{owner: true}
	queue := owner.DirectSupertypes()
	var found []config.Configuration

	for len(queue) > 0 {
		var next []*ast.ClassDecl
		for _, super := range queue {
			if super == nil || visited[super] {
				continue
			}
			visited[super] = true

			if member := super.MemberNamed(elem.Name(), req.library); member != nil {
				childReq := &request{reader: req.reader, library: req.library}
				found = append(found, r.getElementConfiguration(member, childReq))
				continue // stop descending through this branch
			}
			next = append(next, super.DirectSupertypes()...)
		}
		queue = next
	}

	if len(found) == 0 {
		return config.Configuration{}, false
	}
	result := found[0]
	for _, c := range found[1:] {
		result = lattice.IntersectConfiguration(result, c)
	}
	return result, true
}

func ownerOf(elem ast.Element) *ast.ClassDecl {
	switch e := elem.(type) {
	case *ast.FunctionDecl:
		return e.Owner
	case *ast.VariableDecl:
		return e.Owner
	default:
		return nil
	}
}
