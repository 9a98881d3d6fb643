package types

import "strings"

// ClassType is a minimal nominal class hierarchy, grounded on the teacher's
// types.ClassType (single-parent chain, name-based equality). It is the
// concrete Type fixture tests and the CLI's program loader build exception
// and error class trees out of.
type ClassType struct {
	Parent    *ClassType
	call      *FunctionType
	Name      string
	exception bool
}

// NewClassType creates a class with the given parent (nil for a root).
func NewClassType(name string, parent *ClassType) *ClassType {
	return &ClassType{Name: name, Parent: parent}
}

// NewExceptionClassType creates a class rooted (directly or transitively)
// under the Exception marker, per the glossary's Exception/Error split.
func NewExceptionClassType(name string, parent *ClassType) *ClassType {
	return &ClassType{Name: name, Parent: parent, exception: true}
}

// WithCallMember attaches a structural `call` method, making the class
// CallableShape-compatible (§4.3 third bullet).
func (c *ClassType) WithCallMember(call *FunctionType) *ClassType {
	c.call = call
	return c
}

func (c *ClassType) CallMember() FunctionShape {
	if c.call == nil {
		return nil
	}
	return c.call
}

func (c *ClassType) String() string { return c.Name }

func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && o != nil && c != nil && strings.EqualFold(c.Name, o.Name)
}

// IsAssignableTo walks the parent chain: c is assignable to other iff
// other is c itself or one of its ancestors.
func (c *ClassType) IsAssignableTo(other Type) bool {
	o, ok := other.(*ClassType)
	if !ok || o == nil {
		return false
	}
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Equals(o) {
			return true
		}
	}
	return false
}

// IsExceptionSubtype reports whether the class or any ancestor is marked
// as rooted under Exception. An explicit marker rather than a name
// convention, since host hierarchies can name their exception root
// anything.
func (c *ClassType) IsExceptionSubtype() bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.exception {
			return true
		}
	}
	return false
}

// IsSubclassOf reports whether child is other or a descendant of other.
// Kept as a free function (mirroring the teacher's types.IsSubclassOf) for
// callers that don't want to special-case nil receivers.
func IsSubclassOf(child, other *ClassType) bool {
	if child == nil || other == nil {
		return false
	}
	return child.IsAssignableTo(other)
}
